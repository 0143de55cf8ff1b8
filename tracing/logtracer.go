package tracing

import (
	"log"
	"sync"
)

// LogTracer prints task starts and ends to a logger.
type LogTracer struct {
	logger *log.Logger
	filter TaskFilter

	lock     sync.Mutex
	inflight map[string]Task
}

// NewLogTracer creates a LogTracer. A nil filter traces every task.
func NewLogTracer(logger *log.Logger, filter TaskFilter) *LogTracer {
	if filter == nil {
		filter = AllTasks
	}

	return &LogTracer{
		logger:   logger,
		filter:   filter,
		inflight: make(map[string]Task),
	}
}

// StartTask prints the start of the task.
func (t *LogTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflight[task.ID] = task
	t.lock.Unlock()

	t.logger.Printf("[%d] %s start %s %s", task.StartTick, task.Where,
		task.Kind, task.What)
}

// StepTask prints the milestone if the task is being traced.
func (t *LogTracer) StepTask(task Task) {
	t.lock.Lock()
	original, ok := t.inflight[task.ID]
	t.lock.Unlock()

	if !ok {
		return
	}

	for _, s := range task.Steps {
		t.logger.Printf("[%d] %s step %s %s: %s", s.Tick, original.Where,
			original.Kind, original.What, s.What)
	}
}

// EndTask prints the end of the task with its duration.
func (t *LogTracer) EndTask(task Task) {
	t.lock.Lock()
	original, ok := t.inflight[task.ID]
	delete(t.inflight, task.ID)
	t.lock.Unlock()

	if !ok {
		return
	}

	original.EndTick = task.EndTick
	t.logger.Printf("[%d] %s end %s %s (%d ticks)", task.EndTick,
		original.Where, original.Kind, original.What, original.Duration())
}
