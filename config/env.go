package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "CFGREPLAY_"

// ReadEnv collects the environment seen by a run. Values from the dotenv
// files are overridden by the process environment. Missing dotenv files
// are skipped.
func ReadEnv(dotenvFiles ...string) (map[string]string, error) {
	env := make(map[string]string)

	for _, file := range dotenvFiles {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		for k, v := range values {
			env[k] = v
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}

	return env, nil
}

type envSetter func(c *Config, value string) error

var envVars = map[string]envSetter{
	"VARIANT":       func(c *Config, v string) error { c.Variant = v; return nil },
	"STIMULUS_DIR":  func(c *Config, v string) error { c.StimulusDir = v; return nil },
	"OUTPUT_DIR":    func(c *Config, v string) error { c.OutputDir = v; return nil },
	"TRACE_NAME":    func(c *Config, v string) error { c.TraceName = v; return nil },
	"RECORD":        func(c *Config, v string) error { c.Record = v; return nil },
	"STATS_PATH":    func(c *Config, v string) error { c.StatsPath = v; return nil },
	"APPROXIMATE":   boolVar(func(c *Config) *bool { return &c.Approximate }),
	"TRACE":         boolVar(func(c *Config) *bool { return &c.Trace }),
	"COMPARE_READS": boolVar(func(c *Config) *bool { return &c.CompareReads }),
	"VERBOSE":       boolVar(func(c *Config) *bool { return &c.Verbose }),
	"MONITOR":       boolVar(func(c *Config) *bool { return &c.Monitor }),
	"OPEN_BROWSER":  boolVar(func(c *Config) *bool { return &c.OpenBrowser }),
	"STOP_ON_ERROR": boolVar(func(c *Config) *bool { return &c.StopOnError }),
	"MAX_TICKS":     uintVar(func(c *Config) *uint64 { return &c.MaxTicks }),
	"TRACE_START":   uintVar(func(c *Config) *uint64 { return &c.TraceStart }),
	"EXIT_DELAY":    uintVar(func(c *Config) *uint64 { return &c.ExitDelay }),
	"RECORD_START":  uintVar(func(c *Config) *uint64 { return &c.RecordStart }),
	"RECORD_END":    uintVar(func(c *Config) *uint64 { return &c.RecordEnd }),
	"MONITOR_PORT": func(c *Config, v string) error {
		port, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		c.MonitorPort = port

		return nil
	},

	"AUTO_ACKNOWLEDGE": boolVar(func(c *Config) *bool { return &c.AutoAcknowledge }),
	"ACK_ADDRESS":      uintVar(func(c *Config) *uint64 { return &c.AckAddress }),
	"ACK_DATA":         uintVar(func(c *Config) *uint64 { return &c.AckData }),
}

func boolVar(field func(*Config) *bool) envSetter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}

		*field(c) = b

		return nil
	}
}

func uintVar(field func(*Config) *uint64) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return err
		}

		*field(c) = n

		return nil
	}
}

// ApplyEnv overlays the CFGREPLAY_* variables in env on c. Variables with
// the prefix but no meaning are rejected.
func ApplyEnv(c *Config, env map[string]string) error {
	for key, value := range env {
		name, ok := strings.CutPrefix(key, EnvPrefix)
		if !ok {
			continue
		}

		set, ok := envVars[name]
		if !ok {
			return fmt.Errorf("unknown environment variable %s", key)
		}

		if err := set(c, value); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, value, err)
		}
	}

	return nil
}
