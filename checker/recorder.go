package checker

import (
	"fmt"

	"github.com/sarchlab/cfgreplay/datarecording"
	"github.com/sarchlab/cfgreplay/hooking"
)

// Tables written by RecordingHook.
const (
	CheckTable    = "checks"
	MismatchTable = "read_mismatches"
)

// CheckRecord is the stored form of a Result.
type CheckRecord struct {
	Tick      int64
	TestIndex int
	Errors    int64
	Passed    bool
}

// MismatchRecord is the stored form of a ReadMismatch.
type MismatchRecord struct {
	Tick     int64
	Address  string
	Expected string
	Got      string
}

// RecordingHook stores check results and read mismatches.
type RecordingHook struct {
	recorder datarecording.DataRecorder
}

// NewRecordingHook creates the tables the hook writes to.
func NewRecordingHook(recorder datarecording.DataRecorder) *RecordingHook {
	recorder.CreateTable(CheckTable, CheckRecord{})
	recorder.CreateTable(MismatchTable, MismatchRecord{})

	return &RecordingHook{recorder: recorder}
}

// Func stores the item carried by the hook context.
func (h *RecordingHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case HookPosCheckResult:
		r := ctx.Item.(Result)
		h.recorder.InsertData(CheckTable, CheckRecord{
			Tick:      int64(r.Tick),
			TestIndex: r.TestIndex,
			Errors:    int64(r.Errors),
			Passed:    r.Passed(),
		})
	case HookPosReadMismatch:
		m := ctx.Item.(ReadMismatch)
		h.recorder.InsertData(MismatchTable, MismatchRecord{
			Tick:     int64(m.Tick),
			Address:  fmt.Sprintf("0x%x", m.Address),
			Expected: fmt.Sprintf("0x%x", m.Expected),
			Got:      fmt.Sprintf("0x%x", m.Got),
		})
	}
}
