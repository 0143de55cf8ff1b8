package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/cfgreplay/checker"
	"github.com/sarchlab/cfgreplay/datarecording"
	"github.com/sarchlab/cfgreplay/stats"
	"github.com/sarchlab/cfgreplay/tracing"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	limit int
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect DATABASE",
		Short: "Summarize a recorded run",
		Long: "Summarize a run recorded with --record: the number of rows per " +
			"table, the failed checks and the read mismatches.\n\n" +
			"Example:\n  cfgreplay inspect run.sqlite3",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 20, "maximum number of rows listed per section")

	return cmd
}

func runInspect(
	ctx context.Context,
	out io.Writer,
	filename string,
	opts *inspectOptions,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if !strings.HasSuffix(filename, ".sqlite3") {
		filename += ".sqlite3"
	}

	reader, err := datarecording.NewReader(filename)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "inspect", Err: err}
	}
	defer reader.Close()

	reader.MapTable(tracing.TraceTable, tracing.TaskRecord{})
	reader.MapTable(checker.CheckTable, checker.CheckRecord{})
	reader.MapTable(checker.MismatchTable, checker.MismatchRecord{})
	reader.MapTable(stats.ReadTable, stats.ReadRecord{})
	reader.MapTable(stats.SummaryTable, stats.SummaryRecord{})

	for _, table := range reader.ListTables() {
		_, total, err := reader.Query(ctx, table,
			datarecording.QueryParams{Limit: 1})
		if err != nil {
			return &ExitError{Code: ExitFailure, Message: "inspect", Err: err}
		}

		fmt.Fprintf(out, "%-16s %d\n", table, total)
	}

	failed, _, err := reader.Query(ctx, checker.CheckTable,
		datarecording.QueryParams{
			Where:   "Passed = ?",
			Args:    []any{false},
			OrderBy: "Tick",
			Limit:   opts.limit,
		})
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "inspect", Err: err}
	}

	for _, row := range failed {
		r := row.(*checker.CheckRecord)
		fmt.Fprintf(out, "[%d] Test %d failed with %d errors\n",
			r.Tick, r.TestIndex, r.Errors)
	}

	mismatches, _, err := reader.Query(ctx, checker.MismatchTable,
		datarecording.QueryParams{OrderBy: "Tick", Limit: opts.limit})
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "inspect", Err: err}
	}

	for _, row := range mismatches {
		m := row.(*checker.MismatchRecord)
		fmt.Fprintf(out, "[%d] Read mismatch at %s: expected %s, got %s\n",
			m.Tick, m.Address, m.Expected, m.Got)
	}

	return nil
}
