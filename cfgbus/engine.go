// Package cfgbus drives the configuration bus of the device: one write or
// one read at a time, each made of two valid/ready handshakes.
package cfgbus

import (
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/cfgreplay/dut"
	"github.com/sarchlab/cfgreplay/hooking"
	"github.com/sarchlab/cfgreplay/tracing"
)

// ErrBusBusy is returned when a transaction is issued before the previous
// one completed.
var ErrBusBusy = errors.New("configuration bus busy")

// Engine owns the master side of the configuration bus. All methods are
// expected to be called at the system-clock rising edge.
type Engine struct {
	*hooking.HookableBase

	name string
	bus  dut.Bus

	status Status
	kind   Kind
	addr   uint64
	data   uint64

	addrValid bool
	dataValid bool
	respReady bool

	readData     uint64
	readCaptured bool

	taskID string
}

// NewEngine creates an idle engine driving the given bus.
func NewEngine(name string, bus dut.Bus) *Engine {
	return &Engine{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		bus:          bus,
		status:       StatusComplete,
	}
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// Status returns the completion mask of the current transaction.
func (e *Engine) Status() Status {
	return e.status
}

// Idle reports whether a new transaction can be issued.
func (e *Engine) Idle() bool {
	return e.status.Complete()
}

// InFlight returns the kind of the incomplete transaction, if any.
func (e *Engine) InFlight() Kind {
	if e.Idle() {
		return KindNone
	}

	return e.kind
}

// Address returns the address of the last issued transaction.
func (e *Engine) Address() uint64 {
	return e.addr
}

// IssueWrite drives a write of data to addr. Address and data are presented
// in the same tick.
func (e *Engine) IssueWrite(now uint64, addr, data uint64) error {
	if !e.Idle() {
		return fmt.Errorf("%w: %s of 0x%x in flight at tick %d",
			ErrBusBusy, e.kind, e.addr, now)
	}

	e.begin(now, KindWrite, addr)
	e.data = data
	e.dataValid = true

	e.bus.DriveWriteAddress(true, addr)
	e.bus.DriveWriteData(true, data)

	return nil
}

// IssueRead drives a read of addr and signals that the response can be
// accepted.
func (e *Engine) IssueRead(now uint64, addr uint64) error {
	if !e.Idle() {
		return fmt.Errorf("%w: %s of 0x%x in flight at tick %d",
			ErrBusBusy, e.kind, e.addr, now)
	}

	e.begin(now, KindRead, addr)
	e.readCaptured = false
	e.respReady = true

	e.bus.DriveReadAddress(true, addr)
	e.bus.DriveReadResponseReady(true)

	return nil
}

func (e *Engine) begin(now uint64, kind Kind, addr uint64) {
	e.status = 0
	e.kind = kind
	e.addr = addr
	e.addrValid = true

	e.taskID = xid.New().String()
	tracing.StartTask(e.taskID, "", e, now, kind.String(),
		fmt.Sprintf("0x%x", addr), nil)
}

// Poll samples the ready and valid signals of the device and updates the
// completion mask. Each handshake sets its bit once and deasserts the
// corresponding master signal.
func (e *Engine) Poll(now uint64) Status {
	switch e.InFlight() {
	case KindWrite:
		e.pollWrite(now)
	case KindRead:
		e.pollRead(now)
	}

	return e.status
}

func (e *Engine) pollWrite(now uint64) {
	if e.addrValid && e.bus.WriteAddressReady() {
		e.addrValid = false
		e.status |= StatusAddr
		e.bus.DriveWriteAddress(false, e.addr)
		tracing.AddTaskStep(e.taskID, e, now, "address accepted")
	}

	if e.dataValid && e.bus.WriteDataReady() {
		e.dataValid = false
		e.status |= StatusData
		e.bus.DriveWriteData(false, e.data)
		tracing.AddTaskStep(e.taskID, e, now, "data accepted")
	}

	e.endIfComplete(now)
}

func (e *Engine) pollRead(now uint64) {
	if e.addrValid && e.bus.ReadAddressReady() {
		e.addrValid = false
		e.status |= StatusAddr
		e.bus.DriveReadAddress(false, e.addr)
		tracing.AddTaskStep(e.taskID, e, now, "address accepted")
	}

	if e.respReady && e.bus.ReadResponseValid() {
		e.respReady = false
		e.readData = e.bus.ReadResponseData()
		e.readCaptured = true
		e.status |= StatusData
		e.bus.DriveReadResponseReady(false)
		tracing.AddTaskStep(e.taskID, e, now,
			fmt.Sprintf("response 0x%x", e.readData))
	}

	e.endIfComplete(now)
}

func (e *Engine) endIfComplete(now uint64) {
	if !e.status.Complete() {
		return
	}

	tracing.EndTask(e.taskID, e, now)
}

// ReadData returns the payload captured by the last read. The second value
// is false if no response has been captured since the read was issued.
func (e *Engine) ReadData() (uint64, bool) {
	return e.readData, e.readCaptured
}

// Signals reports the master-side signal levels currently driven.
func (e *Engine) Signals() (addrValid, dataValid, respReady bool) {
	return e.addrValid, e.dataValid, e.respReady
}
