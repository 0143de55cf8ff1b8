// Package sequencer replays the stimulus table on the configuration bus. It
// acts once per system-clock rising edge, waits for the device when a row
// asks for it and schedules the end-of-test checks.
package sequencer

import (
	"errors"
	"fmt"
	"log"

	"github.com/rs/xid"
	"github.com/sarchlab/cfgreplay/cfgbus"
	"github.com/sarchlab/cfgreplay/dut"
	"github.com/sarchlab/cfgreplay/hooking"
	"github.com/sarchlab/cfgreplay/stimulus"
	"github.com/sarchlab/cfgreplay/tracing"
)

// ErrStimulusExhausted is returned when the table runs out while tests are
// still outstanding.
var ErrStimulusExhausted = errors.New("stimulus exhausted")

// BusEngine is the configuration bus as seen by the sequencer.
type BusEngine interface {
	Idle() bool
	IssueWrite(now uint64, addr, data uint64) error
	IssueRead(now uint64, addr uint64) error
	Poll(now uint64) cfgbus.Status
	ReadData() (uint64, bool)
}

// Validator checks the device at the end of a test and compares read
// payloads.
type Validator interface {
	ScheduleCheck(now uint64, testIndex int) error
	CompareRead(now uint64, tx stimulus.Transaction, got uint64) bool
}

// ReadSink receives the payload of every completed read.
type ReadSink interface {
	RecordRead(tick uint64, addr, data uint64)
}

// Config selects the optional behaviors of the sequencer.
type Config struct {
	// EnableReads issues read rows on the bus. When off, read rows are
	// skipped.
	EnableReads bool

	// CompareReads compares read payloads against the golden values.
	CompareReads bool

	// AutoAcknowledge writes AckData to AckAddress after every device
	// completion and waits for the interrupt to drop.
	AutoAcknowledge bool
	AckAddress      uint64
	AckData         uint64
}

// DefaultConfig is the write-only configuration.
var DefaultConfig = Config{
	AckAddress: 0xC,
	AckData:    0xF,
}

// Sequencer drives the stimulus table through the bus engine.
type Sequencer struct {
	*hooking.HookableBase

	name       string
	cfg        Config
	cursor     *stimulus.Cursor
	rows       int
	totalTests int

	bus       BusEngine
	irq       dut.InterruptLine
	validator Validator
	sink      ReadSink
	logger    *log.Logger

	state            State
	ackIssued        bool
	readInProgress   bool
	currentTestIndex int
	checksScheduled  int
	stateTaskID      string

	done bool
	err  error
}

// Name returns the name of the sequencer.
func (s *Sequencer) Name() string {
	return s.name
}

// State returns the current control state.
func (s *Sequencer) State() State {
	return s.state
}

// Cursor returns the index of the next row to replay.
func (s *Sequencer) Cursor() int {
	return s.cursor.Index()
}

// CurrentTestIndex returns the number of device completions observed.
func (s *Sequencer) CurrentTestIndex() int {
	return s.currentTestIndex
}

// Done reports whether the sequencer has reached a terminal condition.
func (s *Sequencer) Done() bool {
	return s.done
}

// Err returns the error that ended the sequence, if any.
func (s *Sequencer) Err() error {
	return s.err
}

// Snapshot returns a copy of the sequencer state.
func (s *Sequencer) Snapshot() Snapshot {
	return Snapshot{
		State:             s.state.String(),
		WaitForDevice:     s.state == StateWaitForDevice,
		LoweringInterrupt: s.state == StateLowerInterrupt,
		Cursor:            s.cursor.Index(),
		Rows:              s.rows,
		ReadInProgress:    s.readInProgress,
		CurrentTestIndex:  s.currentTestIndex,
		TotalTests:        s.totalTests,
		ChecksScheduled:   s.checksScheduled,
		Done:              s.done,
	}
}

// Step performs the work of one active system-clock rising edge. It
// returns an error when the sequence ends abnormally.
func (s *Sequencer) Step(now uint64) error {
	if s.done {
		return s.err
	}

	switch s.state {
	case StateWaitForDevice:
		s.waitForDevice(now)
	case StateLowerInterrupt:
		s.lowerInterrupt(now)
	default:
		s.active(now)
	}

	return s.err
}

func (s *Sequencer) logf(now uint64, format string, args ...any) {
	if s.logger == nil {
		return
	}

	s.logger.Printf("[%d] "+format, append([]any{now}, args...)...)
}

func (s *Sequencer) enter(now uint64, state State) {
	if s.state != StateActive {
		tracing.EndTask(s.stateTaskID, s, now)
	}

	s.state = state

	if state != StateActive {
		s.stateTaskID = xid.New().String()
		tracing.StartTask(s.stateTaskID, "", s, now, "state",
			state.String(), nil)
	}
}

func (s *Sequencer) waitForDevice(now uint64) {
	if !s.irq.Interrupt() {
		return
	}

	s.currentTestIndex++
	s.logf(now, "New test %d", s.currentTestIndex)

	if s.cfg.AutoAcknowledge {
		s.ackIssued = false
		s.enter(now, StateLowerInterrupt)

		return
	}

	s.enter(now, StateActive)
}

func (s *Sequencer) lowerInterrupt(now uint64) {
	if s.logger != nil {
		s.logf(now, "Lowering interrupt... %t", s.irq.Interrupt())
	}

	if !s.ackIssued {
		s.mustIssue(s.bus.IssueWrite(now, s.cfg.AckAddress, s.cfg.AckData))
		s.ackIssued = true

		return
	}

	if s.bus.Poll(now).Complete() && !s.irq.Interrupt() {
		s.enter(now, StateActive)
	}
}

func (s *Sequencer) mustIssue(err error) {
	if err != nil {
		log.Panic(err)
	}
}

func (s *Sequencer) active(now uint64) {
	tx, ok := s.cursor.Current()
	if !ok {
		s.exhausted(now)
		return
	}

	s.logf(now, "Transaction %d: %s", s.cursor.Index(), tx)

	if s.dispatch(now, tx) {
		s.advance(now, tx)
	}
}

func (s *Sequencer) dispatch(now uint64, tx stimulus.Transaction) bool {
	switch {
	case tx.WriteEnable:
		return s.dispatchWrite(now, tx)
	case tx.ReadEnable && s.cfg.EnableReads:
		return s.dispatchRead(now, tx)
	default:
		return true
	}
}

func (s *Sequencer) dispatchWrite(now uint64, tx stimulus.Transaction) bool {
	if s.bus.Idle() {
		s.mustIssue(s.bus.IssueWrite(now, tx.Address, tx.DataIn))
		return false
	}

	return s.bus.Poll(now).Complete()
}

func (s *Sequencer) dispatchRead(now uint64, tx stimulus.Transaction) bool {
	if !s.readInProgress {
		if s.bus.Idle() {
			s.mustIssue(s.bus.IssueRead(now, tx.Address))
			s.readInProgress = true
		} else {
			s.bus.Poll(now)
		}

		return false
	}

	if !s.bus.Poll(now).Complete() {
		return false
	}

	s.readInProgress = false

	data, _ := s.bus.ReadData()

	if s.sink != nil {
		s.sink.RecordRead(now, tx.Address, data)
	}

	if s.cfg.CompareReads {
		s.validator.CompareRead(now, tx, data)
	}

	return true
}

func (s *Sequencer) advance(now uint64, tx stimulus.Transaction) {
	s.cursor.Advance()

	readRow := tx.ReadEnable && !tx.WriteEnable && s.cfg.EnableReads
	if tx.CheckFlag && !readRow {
		s.scheduleCheck(now)
	}

	if s.done {
		return
	}

	switch tx.Wait {
	case stimulus.WaitForDevice:
		s.logf(now, "Waiting for device...")
		s.enter(now, StateWaitForDevice)
	case stimulus.WaitForOther:
		s.logf(now, "Waiting for other interface...")
	}
}

func (s *Sequencer) scheduleCheck(now uint64) {
	err := s.validator.ScheduleCheck(now, s.currentTestIndex)
	if err != nil {
		s.fail(err)
		return
	}

	s.checksScheduled++

	if s.currentTestIndex >= s.totalTests {
		s.logf(now, "All %d tests checked", s.totalTests)
		s.finish(now)

		return
	}

	if s.cfg.EnableReads && !s.cfg.CompareReads {
		s.finish(now)
	}
}

func (s *Sequencer) exhausted(now uint64) {
	if s.currentTestIndex >= s.totalTests || s.cfg.CompareReads {
		s.finish(now)
		return
	}

	s.fail(fmt.Errorf("%w at tick %d: %d of %d tests completed",
		ErrStimulusExhausted, now, s.currentTestIndex, s.totalTests))
}

func (s *Sequencer) finish(now uint64) {
	if s.state != StateActive {
		s.enter(now, StateActive)
	}

	s.done = true
}

func (s *Sequencer) fail(err error) {
	s.err = err
	s.done = true
}
