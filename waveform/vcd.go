// Package waveform dumps signal traces of a run in the Value Change Dump
// format.
package waveform

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Probe is a named signal sampled at every dump.
type Probe struct {
	Name   string
	Width  int
	Sample func() uint64
}

// Sink receives the tick of every evaluation.
type Sink interface {
	Dump(tick uint64)
	Close() error
}

// VCDWriter writes the probes that changed at each dumped tick.
type VCDWriter struct {
	w      *bufio.Writer
	closer io.Closer
	start  uint64
	scope  string

	probes []Probe
	ids    []string
	last   []uint64

	started bool
	err     error
}

// NewVCDWriter creates a writer that starts dumping at the start tick. The
// caller keeps ownership of w.
func NewVCDWriter(w io.Writer, start uint64, probes []Probe) *VCDWriter {
	v := &VCDWriter{
		w:      bufio.NewWriter(w),
		start:  start,
		scope:  "top",
		probes: probes,
		ids:    make([]string, len(probes)),
		last:   make([]uint64, len(probes)),
	}

	for i := range probes {
		if probes[i].Width <= 0 {
			probes[i].Width = 1
		}

		v.ids[i] = identifier(i)
	}

	return v
}

// Create opens path and writes a trace into it.
func Create(path string, start uint64, probes []Probe) (*VCDWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}

	v := NewVCDWriter(f, start, probes)
	v.closer = f

	return v, nil
}

// Start returns the first dumped tick.
func (v *VCDWriter) Start() uint64 {
	return v.start
}

// identifier encodes i with the printable characters allowed in VCD
// identifiers.
func identifier(i int) string {
	const count = '~' - '!' + 1

	var id []byte

	for {
		id = append(id, byte('!'+i%count))

		i = i/count - 1
		if i < 0 {
			return string(id)
		}
	}
}

func (v *VCDWriter) printf(format string, args ...any) {
	if v.err != nil {
		return
	}

	_, v.err = fmt.Fprintf(v.w, format, args...)
}

func (v *VCDWriter) header() {
	v.printf("$version cfgreplay $end\n")
	v.printf("$timescale 1ns $end\n")
	v.printf("$scope module %s $end\n", v.scope)

	for i, p := range v.probes {
		if p.Width == 1 {
			v.printf("$var wire 1 %s %s $end\n", v.ids[i], p.Name)
			continue
		}

		v.printf("$var wire %d %s %s [%d:0] $end\n",
			p.Width, v.ids[i], p.Name, p.Width-1)
	}

	v.printf("$upscope $end\n")
	v.printf("$enddefinitions $end\n")
}

func (v *VCDWriter) value(i int, x uint64) {
	if v.probes[i].Width == 1 {
		v.printf("%d%s\n", x&1, v.ids[i])
		return
	}

	v.printf("b%s %s\n", strconv.FormatUint(x, 2), v.ids[i])
}

// Dump samples every probe and writes the ones that changed.
func (v *VCDWriter) Dump(tick uint64) {
	if tick < v.start {
		return
	}

	if !v.started {
		v.started = true
		v.header()
		v.printf("#%d\n$dumpvars\n", tick)

		for i, p := range v.probes {
			v.last[i] = p.Sample()
			v.value(i, v.last[i])
		}

		v.printf("$end\n")

		return
	}

	stamped := false

	for i, p := range v.probes {
		x := p.Sample()
		if x == v.last[i] {
			continue
		}

		if !stamped {
			v.printf("#%d\n", tick)
			stamped = true
		}

		v.last[i] = x
		v.value(i, x)
	}
}

// Close flushes the trace and closes the file if the writer opened it.
func (v *VCDWriter) Close() error {
	if err := v.w.Flush(); err != nil && v.err == nil {
		v.err = err
	}

	if v.closer != nil {
		if err := v.closer.Close(); err != nil && v.err == nil {
			v.err = err
		}

		v.closer = nil
	}

	return v.err
}

// Bool turns a boolean getter into a probe sampler.
func Bool(f func() bool) func() uint64 {
	return func() uint64 {
		if f() {
			return 1
		}

		return 0
	}
}
