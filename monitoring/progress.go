package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar counts the tests checked so far out of the declared total.
type ProgressBar struct {
	lock sync.Mutex

	id        string
	name      string
	startTime time.Time
	total     uint64
	passed    uint64
	failed    uint64
}

// Record adds the outcome of one checked test.
func (b *ProgressBar) Record(passed bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if passed {
		b.passed++
	} else {
		b.failed++
	}
}

// Counts returns the number of passed and failed tests.
func (b *ProgressBar) Counts() (passed, failed uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.passed, b.failed
}

type progressView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Failed    uint64    `json:"failed"`
}

func (b *ProgressBar) snapshot() progressView {
	b.lock.Lock()
	defer b.lock.Unlock()

	return progressView{
		ID:        b.id,
		Name:      b.name,
		StartTime: b.startTime,
		Total:     b.total,
		Finished:  b.passed + b.failed,
		Failed:    b.failed,
	}
}
