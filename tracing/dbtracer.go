package tracing

import (
	"sync"

	"github.com/sarchlab/cfgreplay/datarecording"
	"github.com/tebeka/atexit"
)

// TraceTable is the table that DBTracer writes to.
const TraceTable = "trace"

// TaskRecord is the row stored for each task.
type TaskRecord struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTick int64
	EndTick   int64
	Finished  bool
}

// DBTracer is a tracer that can store tasks into a database.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTick, endTick uint64
	lastTick           uint64

	tracingTasks map[string]Task
	terminated   bool
}

// NewDBTracer creates a new DBTracer. Unfinished tasks are written when the
// process exits.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	dataRecorder.CreateTable(TraceTable, TaskRecord{})

	t := &DBTracer{
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits recording to tasks overlapping [start, end]. An end of
// 0 means no upper limit.
func (t *DBTracer) SetTimeRange(startTick, endTick uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTick = startTick
	t.endTick = endTick
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	startingTaskMustBeValid(task)

	t.observe(task.StartTick)

	if t.endTick > 0 && task.StartTick > t.endTick {
		return
	}

	t.tracingTasks[task.ID] = task
}

func startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task location must be set")
	}
}

// StepTask marks a step of a task.
func (t *DBTracer) StepTask(_ Task) {
	// Do nothing for now.
}

// EndTask marks the end of a task.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.observe(task.EndTick)

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	if task.EndTick < t.startTick {
		return
	}

	originalTask.EndTick = task.EndTick
	t.write(originalTask, true)
}

func (t *DBTracer) observe(tick uint64) {
	if tick > t.lastTick {
		t.lastTick = tick
	}
}

// Terminate writes the tasks that never ended, closing them at the last
// observed tick, and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminated {
		return
	}

	t.terminated = true

	for _, task := range t.tracingTasks {
		task.EndTick = t.lastTick
		t.write(task, false)
	}

	t.tracingTasks = nil
	t.backend.Flush()
}

func (t *DBTracer) write(task Task, finished bool) {
	t.backend.InsertData(TraceTable, TaskRecord{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Where,
		StartTick: int64(task.StartTick),
		EndTick:   int64(task.EndTick),
		Finished:  finished,
	})
}
