package tracing

// A TaskStep represents a milestone in the processing of task
type TaskStep struct {
	Tick uint64 `json:"tick"`
	What string `json:"what"`
}

// A Task is a unit of work with a start and an end tick: a bus transaction, a
// sequencer wait, a check.
type Task struct {
	ID        string     `json:"id"`
	ParentID  string     `json:"parent_id"`
	Kind      string     `json:"kind"`
	What      string     `json:"what"`
	Where     string     `json:"where"`
	StartTick uint64     `json:"start_tick"`
	EndTick   uint64     `json:"end_tick"`
	Steps     []TaskStep `json:"steps"`
	Detail    any        `json:"-"`
}

// Duration returns the number of ticks between start and end.
func (t Task) Duration() uint64 {
	if t.EndTick < t.StartTick {
		return 0
	}

	return t.EndTick - t.StartTick
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// KindIs returns a filter that accepts tasks of the given kind.
func KindIs(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}

// AllTasks accepts every task.
func AllTasks(Task) bool {
	return true
}
