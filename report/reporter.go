// Package report prints the progress lines and the final verdict of a run.
package report

import (
	"fmt"
	"io"
	"sync"
)

// Reporter writes user-facing lines. Regular lines go to out, failures that
// end the run go to errOut.
type Reporter struct {
	lock   sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// NewReporter creates a Reporter.
func NewReporter(out, errOut io.Writer) *Reporter {
	return &Reporter{out: out, errOut: errOut}
}

func (r *Reporter) printf(w io.Writer, format string, args ...any) {
	r.lock.Lock()
	defer r.lock.Unlock()

	fmt.Fprintf(w, format, args...)
}

// Start prints the banner of a run.
func (r *Reporter) Start(description string, approximate bool) {
	arithmetic := "Exact"
	if approximate {
		arithmetic = "Approximate"
	}

	r.printf(r.out, "\nInitializing test...\n\n"+
		"Using %s arithmetic.\n"+
		"Reading stimuli from file...\n"+
		"Executing %s.\n\n"+
		"Starting tests\n\n", arithmetic, description)
}

// TestResult prints the outcome of one end-of-test check.
func (r *Reporter) TestResult(tick uint64, testIndex int, errors uint64) {
	if errors > 0 {
		r.printf(r.out, "[%d] Test %d - \t failed with %d errors.\n",
			tick, testIndex, errors)
		return
	}

	r.printf(r.out, "[%d] Test %d - \t passed with 0 errors :)\n",
		tick, testIndex)
}

// ReadMismatch prints a read whose payload differs from the golden value.
func (r *Reporter) ReadMismatch(tick uint64, addr, expected, got uint64) {
	r.printf(r.out,
		"[%d] Read mismatch at 0x%x - \t expected 0x%x, got 0x%x.\n",
		tick, addr, expected, got)
}

// TraceStarted notes the tick at which waveform capture begins.
func (r *Reporter) TraceStarted(tick uint64) {
	r.printf(r.out, "[%d] Starting VCD dump.\n", tick)
}

// Summary prints the aggregate verdict.
func (r *Reporter) Summary(v Verdict) {
	if v.Transactions > 0 {
		r.printf(r.out, "\n[%d] %d bus transactions, %.1f ticks on average.\n",
			v.Tick, v.Transactions, v.AverageLatency)
	}

	switch {
	case v.Err != nil:
		r.printf(r.out, "\n[%d] Benchmark aborted after %d checks: %v\n"+
			"FAILED!\n", v.Tick, v.Checks, v.Err)
	case v.Failures() > 0 && v.ReadMismatches > 0:
		r.printf(r.out,
			"\n[%d] Benchmark failed with %d errors (%d read mismatches).\n"+
				"FAILED!\n",
			v.Tick, v.Failures(), v.ReadMismatches)
	case v.Failures() > 0:
		r.printf(r.out, "\n[%d] Benchmark failed with %d errors.\nFAILED!\n",
			v.Tick, v.Failures())
	default:
		r.printf(r.out, "\n[%d] Benchmark passed with no errors.\nSUCCESS!\n",
			v.Tick)
	}

	if v.Exhausted {
		r.printf(r.errOut,
			"[%d] STIMULUS EXHAUSTED - %d of %d tests completed.\n",
			v.Tick, v.TestsCompleted, v.TestsDeclared)
	}

	if v.TimedOut {
		r.printf(r.errOut, "[%d] TIMEOUT - Arrived at max time.\n", v.Tick)
	}
}
