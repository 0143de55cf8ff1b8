package report

// Verdict is the aggregate outcome of a run.
type Verdict struct {
	// Tick is the tick at which the run ended.
	Tick uint64

	// End names why the run stopped.
	End string

	// Err is set when the sequence could not be carried out. No verdict
	// on the device is given then.
	Err error

	TotalErrors    uint64
	ReadMismatches uint64
	Checks         int

	// TimedOut is set when the tick budget ran out before natural
	// completion.
	TimedOut bool

	// Exhausted is set when the stimulus ran out with tests outstanding.
	Exhausted      bool
	TestsCompleted int
	TestsDeclared  int

	// Transactions and AverageLatency summarize the bus activity. They are
	// only printed when Transactions is not zero.
	Transactions   uint64
	AverageLatency float64
}

// Failures returns the functional failures of the run.
func (v Verdict) Failures() uint64 {
	return v.TotalErrors + v.ReadMismatches
}

// Passed reports whether the run is clean.
func (v Verdict) Passed() bool {
	return v.Err == nil && v.Failures() == 0 && !v.TimedOut && !v.Exhausted
}

// ExitCode returns the process exit status for the verdict.
func (v Verdict) ExitCode() int {
	if v.Passed() {
		return 0
	}

	return 1
}
