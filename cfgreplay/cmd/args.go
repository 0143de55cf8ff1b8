package cmd

import (
	"fmt"
	"strings"
)

// plusargs maps simulator-style plusargs to flags. Values are kept after the
// equal sign.
var plusargs = map[string]string{
	"+vcd":               "--trace",
	"+max-cycles":        "--max-ticks",
	"+vcd_name":          "--trace-name",
	"+start_vcd_time":    "--trace-start",
	"+check_read_values": "--check-read-values",
}

// NormalizeArgs rewrites plusargs and the "--h" spelling of help into
// regular flags.
func NormalizeArgs(args []string) ([]string, error) {
	out := make([]string, 0, len(args))

	for _, arg := range args {
		if arg == "--h" {
			out = append(out, "--help")
			continue
		}

		if !strings.HasPrefix(arg, "+") {
			out = append(out, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")

		flag, ok := plusargs[name]
		if !ok {
			return nil, usageError{fmt.Errorf("unknown option %q", arg)}
		}

		if hasValue {
			flag += "=" + value
		}

		out = append(out, flag)
	}

	return out, nil
}
