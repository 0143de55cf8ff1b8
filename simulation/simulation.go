// Package simulation runs the tick loop that connects the time base, the
// sequencer, the checker and the device under test.
package simulation

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/cfgreplay/cfgbus"
	"github.com/sarchlab/cfgreplay/checker"
	"github.com/sarchlab/cfgreplay/datarecording"
	"github.com/sarchlab/cfgreplay/dut"
	"github.com/sarchlab/cfgreplay/hooking"
	"github.com/sarchlab/cfgreplay/monitoring"
	"github.com/sarchlab/cfgreplay/report"
	"github.com/sarchlab/cfgreplay/sequencer"
	"github.com/sarchlab/cfgreplay/stats"
	"github.com/sarchlab/cfgreplay/stimulus"
	"github.com/sarchlab/cfgreplay/timing"
	"github.com/sarchlab/cfgreplay/tracing"
	"github.com/sarchlab/cfgreplay/waveform"
)

// EndReason tells why the tick loop stopped.
type EndReason int

// Reasons for the end of a run.
const (
	EndNone EndReason = iota
	EndSequenceDone
	EndDeviceFinished
	EndExitDelay
	EndTimeout
	EndError
)

func (r EndReason) String() string {
	switch r {
	case EndSequenceDone:
		return "sequence done"
	case EndDeviceFinished:
		return "device finished"
	case EndExitDelay:
		return "exit delay expired"
	case EndTimeout:
		return "timeout"
	case EndError:
		return "error"
	default:
		return "running"
	}
}

// State is what the monitor shows about a running simulation.
type State struct {
	Tick      uint64             `json:"tick"`
	Sequencer sequencer.Snapshot `json:"sequencer"`
	BusStatus string             `json:"bus_status"`
	Checks    int                `json:"checks"`
	Errors    uint64             `json:"errors"`
	ExitDelay uint64             `json:"exit_delay_remaining"`
	End       string             `json:"end"`
}

// A Simulation owns every component of a run.
type Simulation struct {
	timeBase *timing.TimeBase
	dev      dut.Device
	store    *stimulus.Store
	bus      *cfgbus.Engine
	seq      *sequencer.Sequencer
	checker  *checker.Checker
	reporter *report.Reporter

	description string
	approximate bool

	busTimer *tracing.TotalTimeTracer
	dbTracer *tracing.DBTracer
	recorder datarecording.DataRecorder
	stats    stats.Multi
	waveform waveform.Sink

	traceStart     uint64
	traceAnnounced bool

	monitor  *monitoring.Monitor
	progress *monitoring.ProgressBar

	stopOnError bool
	exitPeriods uint64
	exitDelay   timing.ExitDelay

	stateLock sync.Mutex
	end       EndReason

	tick      atomic.Uint64
	pauseLock sync.Mutex
	pauseCond sync.Cond
	paused    bool
}

// Sequencer returns the sequencer of the run.
func (s *Simulation) Sequencer() *sequencer.Sequencer {
	return s.seq
}

// Bus returns the configuration bus engine of the run.
func (s *Simulation) Bus() *cfgbus.Engine {
	return s.bus
}

// Checker returns the checker of the run.
func (s *Simulation) Checker() *checker.Checker {
	return s.checker
}

// Monitor returns the monitor serving the run, or nil.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// CurrentTick returns the tick being processed.
func (s *Simulation) CurrentTick() uint64 {
	return s.tick.Load()
}

// Pause stops the tick loop before the next tick.
func (s *Simulation) Pause() {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	s.paused = true
}

// Continue resumes a paused tick loop.
func (s *Simulation) Continue() {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	s.paused = false
	s.pauseCond.Broadcast()
}

// Paused reports whether the tick loop is paused.
func (s *Simulation) Paused() bool {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	return s.paused
}

func (s *Simulation) waitIfPaused() {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	for s.paused {
		s.pauseCond.Wait()
	}
}

// State returns a snapshot of the run.
func (s *Simulation) State() State {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	tally := s.checker.Tally()

	return State{
		Tick:      s.CurrentTick(),
		Sequencer: s.seq.Snapshot(),
		BusStatus: s.bus.Status().String(),
		Checks:    tally.Checks(),
		Errors:    tally.TotalErrors + tally.ReadMismatches,
		ExitDelay: s.exitDelay.Remaining(),
		End:       s.end.String(),
	}
}

// Run executes the tick loop until one of the end conditions holds and
// returns the verdict. An error is returned when the sequence could not be
// carried out at all.
func (s *Simulation) Run() (report.Verdict, error) {
	s.reporter.Start(s.description, s.approximate)

	for s.end == EndNone {
		s.waitIfPaused()
		s.step()
	}

	return s.finish()
}

func (s *Simulation) step() {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	p := s.timeBase.Phase()
	now := uint64(p.Tick)
	s.tick.Store(now)

	s.dev.DriveReset(p.ResetReleased)
	s.dev.DriveDeviceClock(s.timeBase.DeviceClock().LevelAt(p.Tick))

	if p.Active {
		err := s.seq.Step(now)
		if err != nil && !errors.Is(err, sequencer.ErrStimulusExhausted) {
			s.end = EndError
		}
	}

	s.dev.DriveSystemClock(s.timeBase.SystemClock().LevelAt(p.Tick))
	s.checker.Apply(now)
	s.dev.Eval()
	s.dumpWaveform(now)
	s.exitDelay.Observe(p)

	switch {
	case s.end != EndNone:
		return
	case s.dev.Finished():
		s.end = EndDeviceFinished
		return
	case s.seq.Done() && s.checker.Idle():
		s.end = EndSequenceDone
		return
	case s.exitDelay.Expired():
		s.end = EndExitDelay
		return
	}

	s.timeBase.Advance()

	if s.timeBase.BudgetExhausted() {
		s.end = EndTimeout
	}
}

func (s *Simulation) dumpWaveform(now uint64) {
	if s.waveform == nil {
		return
	}

	if !s.traceAnnounced && now >= s.traceStart {
		s.traceAnnounced = true
		s.reporter.TraceStarted(now)
	}

	s.waveform.Dump(now)
}

// observeCheck follows the results of the checker.
func (s *Simulation) observeCheck(ctx hooking.HookCtx) {
	failed := false

	switch ctx.Pos {
	case checker.HookPosCheckResult:
		r := ctx.Item.(checker.Result)
		failed = !r.Passed()

		if s.progress != nil {
			s.progress.Record(r.Passed())
		}
	case checker.HookPosReadMismatch:
		failed = true
	}

	if failed && s.stopOnError {
		s.exitDelay.Arm(s.exitPeriods)
	}
}

func (s *Simulation) finish() (report.Verdict, error) {
	now := uint64(s.timeBase.Now())

	s.stateLock.Lock()
	s.checker.Finalize(now)
	s.dev.Final()
	tally := s.checker.Tally()
	s.stateLock.Unlock()
	seqErr := s.seq.Err()

	var err error
	if s.end == EndError {
		err = fmt.Errorf("simulation stopped at tick %d: %w", now, seqErr)
	}

	v := report.Verdict{
		Tick:           now,
		End:            s.end.String(),
		Err:            err,
		TotalErrors:    tally.TotalErrors,
		ReadMismatches: tally.ReadMismatches,
		Checks:         tally.Checks(),
		TimedOut:       s.end == EndTimeout,
		Exhausted:      errors.Is(seqErr, sequencer.ErrStimulusExhausted),
		TestsCompleted: s.seq.CurrentTestIndex(),
		TestsDeclared:  s.store.Config.TotalTests,
		Transactions:   s.busTimer.Completed(),
		AverageLatency: s.busTimer.AverageTicks(),
	}

	s.reporter.Summary(v)

	if len(s.stats) > 0 {
		if statsErr := s.stats.Finish(now, v.Failures()); statsErr != nil {
			err = errors.Join(err, statsErr)
		}
	}

	if closeErr := s.closeOutputs(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	return v, err
}

// EndReason returns why the run stopped.
func (s *Simulation) EndReason() EndReason {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	return s.end
}

// closeOutputs writes everything buffered. Unfinished bus transactions are
// recorded at the last tick.
func (s *Simulation) closeOutputs() error {
	var errs []error

	if s.waveform != nil {
		errs = append(errs, s.waveform.Close())
		s.waveform = nil
	}

	if s.dbTracer != nil {
		s.dbTracer.Terminate()
	}

	if s.recorder != nil {
		errs = append(errs, s.recorder.Close())
	}

	if s.monitor != nil {
		if s.progress != nil {
			s.monitor.CompleteProgressBar(s.progress)
		}

		errs = append(errs, s.monitor.StopServer())
	}

	return errors.Join(errs...)
}
