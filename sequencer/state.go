package sequencer

// State is the control state of the sequencer.
type State int

// Sequencer states.
const (
	StateActive State = iota
	StateWaitForDevice
	StateLowerInterrupt
)

func (s State) String() string {
	switch s {
	case StateWaitForDevice:
		return "WAIT_FOR_DEVICE"
	case StateLowerInterrupt:
		return "LOWER_INTERRUPT"
	default:
		return "ACTIVE"
	}
}

// Snapshot is a read-only copy of the sequencer state.
type Snapshot struct {
	State             string
	WaitForDevice     bool
	LoweringInterrupt bool
	Cursor            int
	Rows              int
	ReadInProgress    bool
	CurrentTestIndex  int
	TotalTests        int
	ChecksScheduled   int
	Done              bool
}
