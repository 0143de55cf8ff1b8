package simulation

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

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

// Builder can be used to build a simulation.
type Builder struct {
	device dut.Device
	store  *stimulus.Store

	timeBase    timing.Builder
	seqConfig   sequencer.Config
	description string
	approximate bool

	out, errOut io.Writer
	verbose     bool

	traceFile  string
	traceStart uint64

	statsFile string

	recordPath             string
	recordStart, recordEnd uint64

	monitorOn   bool
	monitorPort int
	openBrowser bool

	stopOnError bool
	exitDelay   uint64
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		timeBase:  timing.MakeBuilder(),
		seqConfig: sequencer.DefaultConfig,
		out:       os.Stdout,
		errOut:    os.Stderr,
		exitDelay: 10,
	}
}

// WithDevice sets the device under test.
func (b Builder) WithDevice(d dut.Device) Builder {
	b.device = d
	return b
}

// WithStimulus sets the tables to replay.
func (b Builder) WithStimulus(s *stimulus.Store) Builder {
	b.store = s
	return b
}

// WithTimeBase sets the clocks, reset and activation of the run.
func (b Builder) WithTimeBase(tb timing.Builder) Builder {
	b.timeBase = tb
	return b
}

// WithMaxTicks sets the tick budget. Zero disables the budget.
func (b Builder) WithMaxTicks(n uint64) Builder {
	b.timeBase = b.timeBase.WithMaxTicks(timing.VTimeInTick(n))
	return b
}

// WithSequencerConfig sets the optional behaviors of the sequencer.
func (b Builder) WithSequencerConfig(cfg sequencer.Config) Builder {
	b.seqConfig = cfg
	return b
}

// WithDescription sets the workload description printed at start.
func (b Builder) WithDescription(d string, approximate bool) Builder {
	b.description = d
	b.approximate = approximate

	return b
}

// WithOutput sets where progress and failures are printed.
func (b Builder) WithOutput(out, errOut io.Writer) Builder {
	b.out = out
	b.errOut = errOut

	return b
}

// WithVerbose turns on transaction and state logging.
func (b Builder) WithVerbose(v bool) Builder {
	b.verbose = v
	return b
}

// WithTrace writes a waveform to path from the start tick on.
func (b Builder) WithTrace(path string, start uint64) Builder {
	b.traceFile = path
	b.traceStart = start

	return b
}

// WithStatsFile writes the statistics file to path.
func (b Builder) WithStatsFile(path string) Builder {
	b.statsFile = path
	return b
}

// WithRecord records the run into path + ".sqlite3". Bus transactions are
// recorded when they overlap [start, end]; an end of 0 means no limit.
func (b Builder) WithRecord(path string, start, end uint64) Builder {
	b.recordPath = path
	b.recordStart = start
	b.recordEnd = end

	return b
}

// WithMonitor serves the monitor on port. Port 0 picks a free port.
func (b Builder) WithMonitor(port int, openBrowser bool) Builder {
	b.monitorOn = true
	b.monitorPort = port
	b.openBrowser = openBrowser

	return b
}

// WithStopOnError ends the run the given number of system periods after the
// first failure.
func (b Builder) WithStopOnError(periods uint64) Builder {
	b.stopOnError = true
	b.exitDelay = periods

	return b
}

func (b Builder) parametersMustBeValid() error {
	if b.device == nil {
		return errors.New("simulation: no device")
	}

	if b.store == nil {
		return errors.New("simulation: no stimulus")
	}

	if b.stopOnError && b.exitDelay == 0 {
		return errors.New("simulation: stop on error needs an exit delay")
	}

	return nil
}

// Build builds the simulation. Files opened by a failed build are closed.
func (b Builder) Build() (s *Simulation, err error) {
	if err = b.parametersMustBeValid(); err != nil {
		return nil, err
	}

	s = &Simulation{
		dev:         b.device,
		store:       b.store,
		reporter:    report.NewReporter(b.out, b.errOut),
		description: b.description,
		approximate: b.approximate,
		stopOnError: b.stopOnError,
		exitPeriods: b.exitDelay,
		traceStart:  b.traceStart,
	}
	s.pauseCond.L = &s.pauseLock

	defer func() {
		if err != nil {
			s.closeOutputs()
		}
	}()

	s.timeBase, err = b.timeBase.Build()
	if err != nil {
		return nil, err
	}

	s.bus = cfgbus.NewEngine("CfgBus", b.device)
	s.checker = checker.New(b.device, b.store.Config, s.reporter)
	s.checker.AcceptHook(hooking.HookFunc(s.observeCheck))

	s.busTimer = tracing.NewTotalTimeTracer(tracing.AllTasks)
	tracing.CollectTrace(s.bus, s.busTimer)

	if err = b.buildOutputs(s); err != nil {
		return nil, err
	}

	seqBuilder := sequencer.MakeBuilder().
		WithConfig(b.seqConfig).
		WithTotalTests(b.store.Config.TotalTests).
		WithBus(s.bus).
		WithInterruptLine(b.device).
		WithValidator(s.checker)

	if len(s.stats) > 0 {
		seqBuilder = seqBuilder.WithReadSink(s.stats)
	}

	if b.verbose {
		logger := log.New(b.out, "", 0)
		seqBuilder = seqBuilder.WithLogger(logger)
		tracing.CollectTrace(s.bus,
			tracing.NewLogTracer(logger, tracing.AllTasks))
	}

	s.seq = seqBuilder.Build("Sequencer", b.store.Table)

	if s.dbTracer != nil {
		tracing.CollectTrace(s.bus, s.dbTracer)
		tracing.CollectTrace(s.seq, s.dbTracer)
	}

	if b.monitorOn {
		if err = b.startMonitor(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (b Builder) buildOutputs(s *Simulation) error {
	if b.recordPath != "" {
		recorder, err := datarecording.New(b.recordPath)
		if err != nil {
			return err
		}

		s.recorder = recorder
		s.dbTracer = tracing.NewDBTracer(recorder)
		s.dbTracer.SetTimeRange(b.recordStart, b.recordEnd)
		s.checker.AcceptHook(checker.NewRecordingHook(recorder))
		s.stats = append(s.stats, stats.NewRecorderSink(recorder))
	}

	if b.statsFile != "" {
		sink, err := stats.NewFileSink(b.statsFile)
		if err != nil {
			return err
		}

		s.stats = append(s.stats, sink)
	}

	if b.traceFile != "" {
		vcd, err := waveform.Create(b.traceFile, b.traceStart, s.probes())
		if err != nil {
			return err
		}

		s.waveform = vcd
	}

	return nil
}

func (b Builder) startMonitor(s *Simulation) error {
	m := monitoring.NewMonitor().WithPortNumber(b.monitorPort)
	m.RegisterEngine(s)
	m.RegisterState(func() any { return s.State() })
	m.RegisterLock(&s.stateLock)
	m.RegisterComponent(s.seq)
	m.RegisterComponent(s.bus)
	m.RegisterComponent(s.checker)

	s.progress = m.CreateProgressBar("Tests",
		uint64(b.store.Config.TotalTests))

	url, err := m.StartServer()
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	if b.openBrowser {
		m.OpenBrowser(url)
	}

	s.monitor = m

	return nil
}
