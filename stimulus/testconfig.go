package stimulus

import "fmt"

// Layout selects how the test-configuration table is interpreted.
type Layout int

const (
	// LayoutPerTest reads the table as
	// [nTests, totalTiles, (tiles, dramStart, dramEnd) * nTests].
	LayoutPerTest Layout = iota

	// LayoutGlobal reads the table as
	// [nTests, dramStart, dramEnd, outputOffset?].
	LayoutGlobal
)

func (l Layout) String() string {
	if l == LayoutGlobal {
		return "global"
	}

	return "per-test"
}

// TestConfigEntry holds the parameters of a single test.
type TestConfigEntry struct {
	Tiles     uint64
	DRAMStart uint64
	DRAMEnd   uint64
}

// Window is the DRAM region the device is asked to validate.
type Window struct {
	Start        uint64
	End          uint64
	OutputOffset uint64
}

// TestConfig is the global run metadata.
type TestConfig struct {
	TotalTests int
	TotalTiles uint64
	Layout     Layout

	entries []TestConfigEntry
	global  Window
}

// ParseTestConfig interprets the raw values of a test-configuration table.
// Only the test count is mandatory. Missing per-test records are reported
// when the corresponding test is looked up, and by Complete.
func ParseTestConfig(values []uint64, layout Layout) (*TestConfig, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty test configuration", ErrLayoutMismatch)
	}

	c := &TestConfig{
		TotalTests: int(values[0]),
		Layout:     layout,
	}

	switch layout {
	case LayoutPerTest:
		c.parsePerTest(values)
	case LayoutGlobal:
		c.parseGlobal(values)
	default:
		return nil, fmt.Errorf("%w: unknown layout %d", ErrLayoutMismatch, layout)
	}

	return c, nil
}

func (c *TestConfig) parsePerTest(values []uint64) {
	if len(values) > 1 {
		c.TotalTiles = values[1]
	}

	for i := 2; i+2 < len(values); i += 3 {
		c.entries = append(c.entries, TestConfigEntry{
			Tiles:     values[i],
			DRAMStart: values[i+1],
			DRAMEnd:   values[i+2],
		})
	}
}

func (c *TestConfig) parseGlobal(values []uint64) {
	fields := []*uint64{&c.global.Start, &c.global.End, &c.global.OutputOffset}
	for i, f := range fields {
		if i+1 < len(values) {
			*f = values[i+1]
		}
	}
}

// NumEntries returns the number of per-test records present.
func (c *TestConfig) NumEntries() int {
	return len(c.entries)
}

// Entry returns the record of the test with the given zero-based id.
func (c *TestConfig) Entry(testID int) (TestConfigEntry, error) {
	if testID < 0 || testID >= len(c.entries) {
		return TestConfigEntry{}, fmt.Errorf("%w: test %d of %d records",
			ErrIndexOutOfRange, testID, len(c.entries))
	}

	return c.entries[testID], nil
}

// Window returns the region to validate for the given test. With the global
// layout every test shares the same window.
func (c *TestConfig) Window(testID int) (Window, error) {
	if c.Layout == LayoutGlobal {
		return c.global, nil
	}

	e, err := c.Entry(testID)
	if err != nil {
		return Window{}, err
	}

	return Window{Start: e.DRAMStart, End: e.DRAMEnd}, nil
}

// Complete checks that the table holds a record for every declared test.
func (c *TestConfig) Complete() error {
	if c.Layout == LayoutPerTest && len(c.entries) < c.TotalTests {
		return fmt.Errorf("%w: %d tests declared, %d records present",
			ErrLayoutMismatch, c.TotalTests, len(c.entries))
	}

	return nil
}
