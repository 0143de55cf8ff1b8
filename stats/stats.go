// Package stats collects the payloads of completed reads and the final
// figures of a run.
package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sarchlab/cfgreplay/datarecording"
	"github.com/tebeka/atexit"
)

// Sink receives one call per completed read and one call at the end of the
// run.
type Sink interface {
	RecordRead(tick uint64, addr, data uint64)
	Finish(tick uint64, totalErrors uint64) error
}

// FileSink writes the statistics file: one decimal payload per completed
// read, then the final tick count, then the total error count.
type FileSink struct {
	lock     sync.Mutex
	w        *bufio.Writer
	closer   io.Closer
	err      error
	finished bool
}

// NewFileSink creates the statistics file at path, truncating any previous
// content.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create statistics file: %w", err)
	}

	s := NewWriterSink(f)
	s.closer = f

	atexit.Register(func() { s.flush() })

	return s, nil
}

// NewWriterSink writes statistics to w. The caller keeps ownership of w.
func NewWriterSink(w io.Writer) *FileSink {
	return &FileSink{w: bufio.NewWriter(w)}
}

// RecordRead appends the payload of a completed read.
func (s *FileSink) RecordRead(_ uint64, _ uint64, data uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.write("%d\n", data)
}

// Finish appends the trailing lines and closes the file.
func (s *FileSink) Finish(tick uint64, totalErrors uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.finished {
		return s.err
	}

	s.finished = true

	s.write("%d\n", tick)
	s.write("%d\n", totalErrors)

	if err := s.w.Flush(); err != nil && s.err == nil {
		s.err = err
	}

	if s.closer != nil {
		if err := s.closer.Close(); err != nil && s.err == nil {
			s.err = err
		}
	}

	return s.err
}

func (s *FileSink) write(format string, args ...any) {
	if s.err != nil {
		return
	}

	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *FileSink) flush() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.finished || s.err != nil {
		return
	}

	s.err = s.w.Flush()
}

// ReadTable and SummaryTable are the tables RecorderSink writes to.
const (
	ReadTable    = "reads"
	SummaryTable = "summary"
)

// ReadRecord is one completed read.
type ReadRecord struct {
	Tick    int64
	Address string
	Data    string
}

// SummaryRecord holds the final figures of a run.
type SummaryRecord struct {
	Tick        int64
	TotalErrors int64
	Reads       int64
}

// RecorderSink stores reads and the run summary in a DataRecorder.
type RecorderSink struct {
	recorder datarecording.DataRecorder
	reads    int64
}

// NewRecorderSink creates the tables it needs in the recorder.
func NewRecorderSink(recorder datarecording.DataRecorder) *RecorderSink {
	recorder.CreateTable(ReadTable, ReadRecord{})
	recorder.CreateTable(SummaryTable, SummaryRecord{})

	return &RecorderSink{recorder: recorder}
}

// RecordRead buffers the read in the recorder.
func (s *RecorderSink) RecordRead(tick uint64, addr, data uint64) {
	s.reads++
	s.recorder.InsertData(ReadTable, ReadRecord{
		Tick:    int64(tick),
		Address: fmt.Sprintf("0x%x", addr),
		Data:    fmt.Sprintf("0x%x", data),
	})
}

// Finish stores the summary row and flushes the recorder.
func (s *RecorderSink) Finish(tick uint64, totalErrors uint64) error {
	s.recorder.InsertData(SummaryTable, SummaryRecord{
		Tick:        int64(tick),
		TotalErrors: int64(totalErrors),
		Reads:       s.reads,
	})
	s.recorder.Flush()

	return nil
}

// Multi fans calls out to several sinks.
type Multi []Sink

// RecordRead forwards the read to every sink.
func (m Multi) RecordRead(tick uint64, addr, data uint64) {
	for _, s := range m {
		s.RecordRead(tick, addr, data)
	}
}

// Finish finishes every sink and returns the first error.
func (m Multi) Finish(tick uint64, totalErrors uint64) error {
	var first error

	for _, s := range m {
		if err := s.Finish(tick, totalErrors); err != nil && first == nil {
			first = err
		}
	}

	return first
}
