package tracing

import (
	"sync"
)

// TotalTimeTracer can collect the total time of executing a certain type of
// task. If the execution of two tasks overlaps, this tracer will simply add
// the two task processing time together.
type TotalTimeTracer struct {
	filter TaskFilter

	lock          sync.Mutex
	totalTicks    uint64
	completed     uint64
	inflightTasks map[string]Task
}

// NewTotalTimeTracer creates a new TotalTimeTracer
func NewTotalTimeTracer(filter TaskFilter) *TotalTimeTracer {
	return &TotalTimeTracer{
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}
}

// TotalTicks returns the ticks spent on the traced tasks.
func (t *TotalTimeTracer) TotalTicks() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalTicks
}

// Completed returns the number of traced tasks that have ended.
func (t *TotalTimeTracer) Completed() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.completed
}

// AverageTicks returns the mean task duration, or 0 if nothing completed.
func (t *TotalTimeTracer) AverageTicks() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.completed == 0 {
		return 0
	}

	return float64(t.totalTicks) / float64(t.completed)
}

// StartTask records the task start time
func (t *TotalTimeTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask does nothing
func (t *TotalTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask records the end of the task
func (t *TotalTimeTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	originalTask, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	originalTask.EndTick = task.EndTick
	t.totalTicks += originalTask.Duration()
	t.completed++
	delete(t.inflightTasks, task.ID)
}
