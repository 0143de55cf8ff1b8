// Package checker asks the device to validate its memory at the end of each
// test and keeps the tally of the errors it reports.
package checker

import (
	"fmt"

	"github.com/sarchlab/cfgreplay/dut"
	"github.com/sarchlab/cfgreplay/hooking"
	"github.com/sarchlab/cfgreplay/stimulus"
)

// Hook positions raised by the checker.
var (
	HookPosCheckResult  = &hooking.HookPos{Name: "CheckResult"}
	HookPosReadMismatch = &hooking.HookPos{Name: "ReadMismatch"}
)

// Device is the part of the device the checker drives.
type Device interface {
	DriveCheck(req dut.CheckRequest)
	Errors() uint64
}

// Printer receives the user-facing outcome lines.
type Printer interface {
	TestResult(tick uint64, testIndex int, errors uint64)
	ReadMismatch(tick uint64, addr, expected, got uint64)
}

// Result is the outcome of one end-of-test check.
type Result struct {
	Tick      uint64
	TestIndex int
	Errors    uint64
}

// Passed reports whether the device found no error.
func (r Result) Passed() bool {
	return r.Errors == 0
}

// ReadMismatch records a read whose payload differs from the golden value.
type ReadMismatch struct {
	Tick     uint64
	Address  uint64
	Expected uint64
	Got      uint64
}

// Tally accumulates the results of a run. Every counter only grows.
type Tally struct {
	Results        []Result
	TotalErrors    uint64
	ReadMismatches uint64
	ReadsCompared  uint64
}

// Checks returns the number of collected check results.
func (t Tally) Checks() int {
	return len(t.Results)
}

// Checker owns the check signals of the device.
type Checker struct {
	*hooking.HookableBase

	dev     Device
	cfg     *stimulus.TestConfig
	printer Printer

	pending  *dut.CheckRequest
	awaiting *dut.CheckRequest

	tally Tally
}

// New creates a Checker that takes its windows from cfg.
func New(dev Device, cfg *stimulus.TestConfig, printer Printer) *Checker {
	return &Checker{
		HookableBase: hooking.NewHookableBase(),
		dev:          dev,
		cfg:          cfg,
		printer:      printer,
	}
}

// Name returns the name of the checker.
func (c *Checker) Name() string {
	return "Checker"
}

// ScheduleCheck requests a check of the test that has just finished. The
// device is asked to validate the test before testIndex, since the index
// has already moved on when the outputs are extracted.
func (c *Checker) ScheduleCheck(now uint64, testIndex int) error {
	if c.pending != nil {
		return fmt.Errorf("tick %d: check of test %d already scheduled",
			now, c.pending.TestIndex)
	}

	checked := testIndex - 1

	w, err := c.cfg.Window(checked)
	if err != nil {
		return fmt.Errorf("tick %d: check of test %d: %w", now, checked, err)
	}

	c.pending = &dut.CheckRequest{
		Pulse:        true,
		TestIndex:    checked,
		Start:        w.Start,
		End:          w.End,
		OutputOffset: w.OutputOffset,
	}

	return nil
}

// Apply drives the check signals for the current tick. It must be called
// once per tick, before the device is evaluated. A check scheduled in this
// tick is pulsed now and collected at the next call.
func (c *Checker) Apply(now uint64) {
	if c.awaiting != nil {
		c.collect(now)

		req := *c.awaiting
		req.Pulse = false
		c.dev.DriveCheck(req)
		c.awaiting = nil
	}

	if c.pending != nil {
		c.dev.DriveCheck(*c.pending)
		c.awaiting = c.pending
		c.pending = nil
	}
}

func (c *Checker) collect(now uint64) {
	r := Result{
		Tick:      now,
		TestIndex: c.awaiting.TestIndex,
		Errors:    c.dev.Errors(),
	}

	c.tally.Results = append(c.tally.Results, r)
	c.tally.TotalErrors += r.Errors

	if c.printer != nil {
		c.printer.TestResult(now, r.TestIndex, r.Errors)
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosCheckResult,
		Tick:   now,
		Item:   r,
	})
}

// Idle reports whether no check is scheduled or waiting for its result.
func (c *Checker) Idle() bool {
	return c.pending == nil && c.awaiting == nil
}

// CompareRead compares the payload of a completed read with the golden
// value of its transaction. It returns true if they match.
func (c *Checker) CompareRead(
	now uint64,
	tx stimulus.Transaction,
	got uint64,
) bool {
	c.tally.ReadsCompared++

	if got == tx.ExpectedReadData {
		return true
	}

	m := ReadMismatch{
		Tick:     now,
		Address:  tx.Address,
		Expected: tx.ExpectedReadData,
		Got:      got,
	}

	c.tally.ReadMismatches++

	if c.printer != nil {
		c.printer.ReadMismatch(now, m.Address, m.Expected, m.Got)
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosReadMismatch,
		Tick:   now,
		Item:   m,
	})

	return false
}

// Finalize collects a check that was pulsed but never read back.
func (c *Checker) Finalize(now uint64) {
	if c.awaiting != nil {
		c.collect(now)
		c.awaiting = nil
	}

	c.pending = nil
}

// Tally returns a copy of the accumulated results.
func (c *Checker) Tally() Tally {
	t := c.tally
	t.Results = append([]Result(nil), c.tally.Results...)

	return t
}
