package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sarchlab/cfgreplay/config"
	"github.com/sarchlab/cfgreplay/dut/regfile"
	"github.com/sarchlab/cfgreplay/simulation"
	"github.com/sarchlab/cfgreplay/stimulus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runOptions holds the flags of a replay. Only flags given on the command
// line override the configuration file and the environment.
type runOptions struct {
	configFile string
	envFile    string

	// workload is the variant named as a positional argument.
	workload string

	flags config.Config
}

func newRunOptions() *runOptions {
	return &runOptions{flags: config.Default()}
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.envFile, "env-file", ".env",
		"dotenv file with CFGREPLAY_* variables")

	f := cmd.Flags()
	c := &o.flags

	f.StringVar(&o.configFile, "config", "", "YAML run configuration")

	f.StringVarP(&c.Variant, "workload", "w", c.Variant,
		fmt.Sprintf("workload variant %v", config.VariantNames()))
	f.StringVar(&c.StimulusDir, "stimulus-dir", c.StimulusDir, "directory holding the stimulus tables")
	f.StringVar(&c.OutputDir, "output-dir", c.OutputDir, "directory for trace and statistics files")
	f.BoolVar(&c.Approximate, "approx", c.Approximate, "use the approximate arithmetic tables")
	f.Uint64Var(&c.MaxTicks, "max-ticks", c.MaxTicks, "tick budget, 0 for unlimited")
	f.BoolVar(&c.Trace, "trace", c.Trace, "write a VCD waveform")
	f.StringVar(&c.TraceName, "trace-name", c.TraceName, "waveform file name")
	f.Uint64Var(&c.TraceStart, "trace-start", c.TraceStart, "first tick written to the waveform")
	f.BoolVar(&c.CompareReads, "check-read-values", c.CompareReads, "compare read payloads with golden data")
	f.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "log transactions and sequencer states")
	f.BoolVar(&c.Monitor, "monitor", c.Monitor, "serve the web monitor")
	f.IntVar(&c.MonitorPort, "monitor-port", c.MonitorPort, "port of the web monitor, 0 for any")
	f.BoolVar(&c.OpenBrowser, "open-browser", c.OpenBrowser, "open the web monitor in a browser")
	f.StringVar(&c.Record, "record", c.Record, "record the run into this SQLite database (without extension)")
	f.Uint64Var(&c.RecordStart, "record-start", c.RecordStart, "first tick of recorded bus transactions")
	f.Uint64Var(&c.RecordEnd, "record-end", c.RecordEnd, "last tick of recorded bus transactions, 0 for no limit")
	f.StringVar(&c.StatsPath, "stats-path", c.StatsPath, "statistics file")
	f.BoolVar(&c.StopOnError, "stop-on-error", c.StopOnError, "stop shortly after the first failure")
	f.Uint64Var(&c.ExitDelay, "exit-delay", c.ExitDelay, "system periods to run after a failure")
	f.BoolVar(&c.AutoAcknowledge, "auto-acknowledge", c.AutoAcknowledge, "write the acknowledgement after every device completion")
	f.Uint64Var(&c.AckAddress, "ack-address", c.AckAddress, "address of the acknowledgement write")
	f.Uint64Var(&c.AckData, "ack-data", c.AckData, "payload of the acknowledgement write")
}

// overlay copies the flags given on the command line onto c.
func (o *runOptions) overlay(flags *pflag.FlagSet, c *config.Config) {
	src := &o.flags

	set := map[string]func(){
		"workload":          func() { c.Variant = src.Variant },
		"stimulus-dir":      func() { c.StimulusDir = src.StimulusDir },
		"output-dir":        func() { c.OutputDir = src.OutputDir },
		"approx":            func() { c.Approximate = src.Approximate },
		"max-ticks":         func() { c.MaxTicks = src.MaxTicks },
		"trace":             func() { c.Trace = src.Trace },
		"trace-name":        func() { c.TraceName = src.TraceName },
		"trace-start":       func() { c.TraceStart = src.TraceStart },
		"check-read-values": func() { c.CompareReads = src.CompareReads },
		"verbose":           func() { c.Verbose = src.Verbose },
		"monitor":           func() { c.Monitor = src.Monitor },
		"monitor-port":      func() { c.MonitorPort = src.MonitorPort },
		"open-browser":      func() { c.OpenBrowser = src.OpenBrowser },
		"record":            func() { c.Record = src.Record },
		"record-start":      func() { c.RecordStart = src.RecordStart },
		"record-end":        func() { c.RecordEnd = src.RecordEnd },
		"stats-path":        func() { c.StatsPath = src.StatsPath },
		"stop-on-error":     func() { c.StopOnError = src.StopOnError },
		"exit-delay":        func() { c.ExitDelay = src.ExitDelay },
		"auto-acknowledge":  func() { c.AutoAcknowledge = src.AutoAcknowledge },
		"ack-address":       func() { c.AckAddress = src.AckAddress },
		"ack-data":          func() { c.AckData = src.AckData },
	}

	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := set[f.Name]; ok {
			apply()
		}
	})
}

// resolve layers the defaults, the YAML file, the environment and the
// command line.
func (o *runOptions) resolve(cmd *cobra.Command) (config.Run, error) {
	c := config.Default()

	if o.configFile != "" {
		if err := config.LoadFile(o.configFile, &c); err != nil {
			return config.Run{}, err
		}
	}

	env, err := config.ReadEnv(o.envFile)
	if err != nil {
		return config.Run{}, err
	}

	if err := config.ApplyEnv(&c, env); err != nil {
		return config.Run{}, err
	}

	o.overlay(cmd.Flags(), &c)

	if o.workload != "" {
		if cmd.Flags().Changed("workload") && c.Variant != o.workload {
			return config.Run{}, fmt.Errorf(
				"workload %s conflicts with --workload %s", o.workload, c.Variant)
		}

		c.Variant = o.workload
	}

	return c.Resolve()
}

func runReplay(cmd *cobra.Command, opts *runOptions) error {
	run, err := opts.resolve(cmd)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "configuration", Err: err}
	}

	store, err := stimulus.Load(run.Source())
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "stimulus", Err: err}
	}

	if err := store.Config.Complete(); err != nil {
		return &ExitError{Code: ExitFailure, Message: "stimulus", Err: err}
	}

	b, err := buildSimulation(cmd, run, store)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "setup", Err: err}
	}

	sim, err := b.Build()
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "setup", Err: err}
	}

	v, err := sim.Run()
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "run", Err: err}
	}

	if code := v.ExitCode(); code != ExitSuccess {
		return &ExitError{Code: code}
	}

	return nil
}

func buildSimulation(
	cmd *cobra.Command,
	run config.Run,
	store *stimulus.Store,
) (simulation.Builder, error) {
	b := simulation.MakeBuilder().
		WithDevice(regfile.New(run.Device.Model())).
		WithStimulus(store).
		WithMaxTicks(run.MaxTicks).
		WithSequencerConfig(run.Sequencer()).
		WithDescription(run.Variant.Description, run.Approximate).
		WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()).
		WithVerbose(run.Verbose)

	for _, path := range []string{run.TraceFile(), run.StatsFile()} {
		if path == "" {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return b, err
		}
	}

	if path := run.TraceFile(); path != "" {
		b = b.WithTrace(path, run.TraceStart)
	}

	if path := run.StatsFile(); path != "" {
		b = b.WithStatsFile(path)
	}

	if run.Record != "" {
		b = b.WithRecord(run.Record, run.RecordStart, run.RecordEnd)
	}

	if run.Monitor {
		b = b.WithMonitor(run.MonitorPort, run.OpenBrowser)
	}

	if run.StopOnError {
		b = b.WithStopOnError(run.ExitDelay)
	}

	return b, nil
}
