// Package cmd provides the command-line interface of cfgreplay.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/cfgreplay/config"
	"github.com/spf13/cobra"
)

// Execute runs the command with the process arguments and returns the exit
// status.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs the command with args, printing to out and errOut, and returns
// the exit status.
func Run(args []string, out, errOut io.Writer) int {
	root := NewRootCommand()
	root.SetOut(out)
	root.SetErr(errOut)

	args, err := NormalizeArgs(args)
	if err == nil {
		root.SetArgs(args)
		err = root.Execute()
	}

	return report(root, err, errOut)
}

func report(root *cobra.Command, err error, errOut io.Writer) int {
	if err == nil {
		return ExitSuccess
	}

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(errOut, "Error: %v\n\n", err)
		fmt.Fprint(errOut, root.UsageString())

		return ExitFailure
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Message != "" {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}

	return exitCode(err)
}

// NewRootCommand creates the root command, which runs a replay.
func NewRootCommand() *cobra.Command {
	opts := newRunOptions()

	cmd := &cobra.Command{
		Use:   "cfgreplay [workload]",
		Short: "Replay configuration-bus stimulus against a device",
		Long: "cfgreplay replays pre-recorded register transactions over the " +
			"configuration bus of a cycle-level device, waits for the device " +
			"to signal completion and checks its results against golden data.\n\n" +
			"Simulator plusargs are accepted: +vcd, +max-cycles=N, " +
			"+vcd_name=FILE, +start_vcd_time=N and +check_read_values.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case len(args) > 1:
				return usageError{fmt.Errorf("unexpected argument %q", args[1])}
			case len(args) == 1:
				if _, err := config.LookupVariant(args[0]); err != nil {
					return usageError{err}
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.workload = args[0]
			}

			return runReplay(cmd, opts)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	opts.bind(cmd)

	cmd.AddCommand(newVariantsCommand())
	cmd.AddCommand(newInspectCommand())

	return cmd
}
