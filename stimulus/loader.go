package stimulus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format selects the shape of the transaction table on disk.
type Format int

const (
	// FormatSplit stores 5 fields per row in the stimulus file
	// (dataIn, address, write, read, wait) and 2 fields per row in a
	// separate golden-output file (expectedReadData, checkFlag).
	FormatSplit Format = iota

	// FormatCombined stores all 7 fields per row in the stimulus file
	// (dataIn, address, write, read, wait, expectedReadData, checkFlag).
	FormatCombined
)

// File names used by the stimulus generators.
const (
	TestConfigFile    = "tstcfg"
	StimuliFile       = "GoldenStimuli"
	GoldenOutputsFile = "GoldenOutputs"
	approxSuffix      = "_approx"
	fileExt           = ".txt"
)

// Source tells the loader where the tables live and how they are laid out.
type Source struct {
	Dir         string
	Approximate bool
	Format      Format
	Layout      Layout
}

// Path returns the path of the table with the given base name.
func (s Source) Path(base string) string {
	if s.Approximate {
		base += approxSuffix
	}

	return filepath.Join(s.Dir, base+fileExt)
}

// Store is the complete set of immutable tables for a run.
type Store struct {
	Config *TestConfig
	Table  *Table
}

// Load reads every table named by the source.
func Load(src Source) (*Store, error) {
	values, err := readFile(src.Path(TestConfigFile), ReadHexValues)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseTestConfig(values, src.Layout)
	if err != nil {
		return nil, err
	}

	var rows []Transaction
	switch src.Format {
	case FormatCombined:
		rows, err = loadCombined(src)
	default:
		rows, err = loadSplit(src)
	}
	if err != nil {
		return nil, err
	}

	return &Store{Config: cfg, Table: NewTable(rows)}, nil
}

func loadCombined(src Source) ([]Transaction, error) {
	rows, err := readFile(src.Path(StimuliFile), rowReader(7))
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, len(rows))
	for i, r := range rows {
		txs[i] = Transaction{
			DataIn:           r[0],
			Address:          r[1],
			WriteEnable:      r[2] != 0,
			ReadEnable:       r[3] != 0,
			Wait:             WaitCode(r[4]),
			ExpectedReadData: r[5],
			CheckFlag:        r[6] != 0,
		}
	}

	return txs, nil
}

func loadSplit(src Source) ([]Transaction, error) {
	stim, err := readFile(src.Path(StimuliFile), rowReader(5))
	if err != nil {
		return nil, err
	}

	golden, err := readFile(src.Path(GoldenOutputsFile), rowReader(2))
	if err != nil {
		return nil, err
	}

	return MergeSplit(stim, golden)
}

// MergeSplit joins 5-field stimulus rows with 2-field golden rows.
func MergeSplit(stim, golden [][]uint64) ([]Transaction, error) {
	if len(golden) < len(stim) {
		return nil, fmt.Errorf("%w: %d stimulus rows, %d golden rows",
			ErrLayoutMismatch, len(stim), len(golden))
	}

	txs := make([]Transaction, len(stim))
	for i, r := range stim {
		txs[i] = Transaction{
			DataIn:           r[0],
			Address:          r[1],
			WriteEnable:      r[2] != 0,
			ReadEnable:       r[3] != 0,
			Wait:             WaitCode(r[4]),
			ExpectedReadData: golden[i][0],
			CheckFlag:        golden[i][1] != 0,
		}
	}

	return txs, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("stimulus: opening %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	return v, nil
}

func rowReader(cols int) func(io.Reader) ([][]uint64, error) {
	return func(r io.Reader) ([][]uint64, error) {
		return ReadHexRows(r, cols)
	}
}

// ReadHexValues reads whitespace-separated hexadecimal values regardless of
// line structure.
func ReadHexValues(r io.Reader) ([]uint64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var values []uint64
	for scanner.Scan() {
		v, err := parseHex(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %v",
				ErrMalformedRow, len(values), err)
		}

		values = append(values, v)
	}

	return values, scanner.Err()
}

// ReadHexRows reads one row of exactly cols hexadecimal fields per line.
// Blank lines are skipped.
func ReadHexRows(r io.Reader, cols int) ([][]uint64, error) {
	scanner := bufio.NewScanner(r)

	var rows [][]uint64
	line := 0
	for scanner.Scan() {
		line++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d",
				ErrMalformedRow, line, len(fields), cols)
		}

		row := make([]uint64, cols)
		for i, tok := range fields {
			v, err := parseHex(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d field %d: %v",
					ErrMalformedRow, line, i, err)
			}
			row[i] = v
		}

		rows = append(rows, row)
	}

	return rows, scanner.Err()
}

func parseHex(tok string) (uint64, error) {
	tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	return strconv.ParseUint(tok, 16, 64)
}
