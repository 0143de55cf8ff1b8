// Package config assembles the configuration of a run from the variant
// table, an optional YAML file, the environment and the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sarchlab/cfgreplay/dut/regfile"
	"github.com/sarchlab/cfgreplay/sequencer"
	"github.com/sarchlab/cfgreplay/stimulus"
	"gopkg.in/yaml.v3"
)

// Default output file names.
const (
	DefaultTraceName = "verilated.vcd"
	StatsFileName    = "test_stats.txt"
)

// Device holds the parameters of the software device.
type Device struct {
	WriteAddressLatency int               `yaml:"write_address_latency"`
	WriteDataLatency    int               `yaml:"write_data_latency"`
	ReadAddressLatency  int               `yaml:"read_address_latency"`
	ReadResponseLatency int               `yaml:"read_response_latency"`
	JobCycles           uint64            `yaml:"job_cycles"`
	InterruptEnabled    bool              `yaml:"interrupt_enabled"`
	UnmappedValue       uint64            `yaml:"unmapped_value"`
	TestErrors          map[int]uint64    `yaml:"test_errors,omitempty"`
	Registers           map[uint64]uint64 `yaml:"registers,omitempty"`
	FinishAfter         uint64            `yaml:"finish_after"`
}

// Model returns the configuration of the software device.
func (d Device) Model() regfile.Config {
	return regfile.Config{
		WriteAddressLatency: d.WriteAddressLatency,
		WriteDataLatency:    d.WriteDataLatency,
		ReadAddressLatency:  d.ReadAddressLatency,
		ReadResponseLatency: d.ReadResponseLatency,
		JobCycles:           d.JobCycles,
		InterruptEnabled:    d.InterruptEnabled,
		UnmappedValue:       d.UnmappedValue,
		TestErrors:          d.TestErrors,
		Registers:           d.Registers,
		FinishAfter:         d.FinishAfter,
	}
}

// Config is the complete configuration of a run.
type Config struct {
	Variant     string `yaml:"variant"`
	StimulusDir string `yaml:"stimulus_dir"`
	OutputDir   string `yaml:"output_dir"`
	Approximate bool   `yaml:"approximate"`

	// MaxTicks is the tick budget. Zero means unlimited.
	MaxTicks uint64 `yaml:"max_ticks"`

	Trace      bool   `yaml:"trace"`
	TraceName  string `yaml:"trace_name"`
	TraceStart uint64 `yaml:"trace_start"`

	CompareReads bool `yaml:"compare_reads"`
	Verbose      bool `yaml:"verbose"`

	// AutoAcknowledge writes AckData to AckAddress after every device
	// completion. Stimulus tables that carry their own acknowledgement
	// rows leave it off.
	AutoAcknowledge bool   `yaml:"auto_acknowledge"`
	AckAddress      uint64 `yaml:"ack_address"`
	AckData         uint64 `yaml:"ack_data"`

	Monitor     bool `yaml:"monitor"`
	MonitorPort int  `yaml:"monitor_port"`
	OpenBrowser bool `yaml:"open_browser"`

	// Record is the base name of the SQLite database. Empty disables
	// recording.
	Record string `yaml:"record"`

	// RecordStart and RecordEnd limit which bus transactions are recorded.
	// A RecordEnd of 0 means no upper limit.
	RecordStart uint64 `yaml:"record_start"`
	RecordEnd   uint64 `yaml:"record_end"`

	// StatsPath overrides where the statistics file is written.
	StatsPath string `yaml:"stats_path"`

	// StopOnError keeps running for ExitDelay system periods after the
	// first failed check, then stops.
	StopOnError bool   `yaml:"stop_on_error"`
	ExitDelay   uint64 `yaml:"exit_delay"`

	Device Device `yaml:"device"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Variant:    DefaultVariant,
		OutputDir:  "outputs",
		TraceName:  DefaultTraceName,
		ExitDelay:  10,
		AckAddress: sequencer.DefaultConfig.AckAddress,
		AckData:    sequencer.DefaultConfig.AckData,
		Device: Device{
			JobCycles:        50,
			InterruptEnabled: true,
		},
	}
}

// LoadFile overlays the YAML file at path on c. Unknown keys are rejected.
func LoadFile(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// Validate checks the values that cannot be checked by their type.
func (c Config) Validate() error {
	if _, err := LookupVariant(c.Variant); err != nil {
		return err
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("monitor port %d out of range", c.MonitorPort)
	}

	if c.Trace && c.TraceName == "" {
		return errors.New("trace enabled without a trace file name")
	}

	if c.RecordEnd != 0 && c.RecordEnd < c.RecordStart {
		return fmt.Errorf("record range [%d, %d] is empty",
			c.RecordStart, c.RecordEnd)
	}

	if c.StopOnError && c.ExitDelay == 0 {
		return errors.New("stop on error requires a non-zero exit delay")
	}

	return nil
}

// Run is a validated configuration with everything derived from the
// variant filled in.
type Run struct {
	Config
	Variant Variant
}

// Resolve validates c and derives the settings of its variant.
func (c Config) Resolve() (Run, error) {
	if err := c.Validate(); err != nil {
		return Run{}, err
	}

	v, err := LookupVariant(c.Variant)
	if err != nil {
		return Run{}, err
	}

	if c.CompareReads {
		v.CompareReads = true
	}

	return Run{Config: c, Variant: v}, nil
}

// Source returns where the stimulus tables are read from.
func (r Run) Source() stimulus.Source {
	dir := r.StimulusDir
	if dir == "" {
		dir = filepath.Join("stimuli", r.Variant.Name)
	}

	return stimulus.Source{
		Dir:         dir,
		Approximate: r.Approximate,
		Format:      r.Variant.Format,
		Layout:      r.Variant.Layout,
	}
}

// Sequencer returns the sequencer behaviors of the run.
func (r Run) Sequencer() sequencer.Config {
	cfg := sequencer.DefaultConfig
	cfg.EnableReads = r.Variant.EnableReads
	cfg.CompareReads = r.Variant.CompareReads
	cfg.AutoAcknowledge = r.AutoAcknowledge
	cfg.AckAddress = r.AckAddress
	cfg.AckData = r.AckData

	return cfg
}

// StatsFile returns the statistics file path, or "" if the run writes none.
func (r Run) StatsFile() string {
	if r.StatsPath != "" {
		return r.StatsPath
	}

	if !r.Variant.WritesStats {
		return ""
	}

	return filepath.Join(r.OutputDir, StatsFileName)
}

// TraceFile returns the waveform file path, or "" if tracing is off.
func (r Run) TraceFile() string {
	if !r.Trace {
		return ""
	}

	if filepath.IsAbs(r.TraceName) || filepath.Dir(r.TraceName) != "." {
		return r.TraceName
	}

	return filepath.Join(r.OutputDir, r.TraceName)
}
