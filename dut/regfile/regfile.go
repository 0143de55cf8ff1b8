// Package regfile provides a register-level software device. It answers the
// configuration bus with configurable latencies, runs fixed-length jobs that
// raise an interrupt and reports injected error counts when checked.
package regfile

import (
	"github.com/sarchlab/cfgreplay/dut"
)

type channel struct {
	// Inputs as driven by the master for the coming edge.
	valid bool
	value uint64

	// Inputs latched at the previous rising edge.
	latchedValid bool
	latchedValue uint64

	ready   bool
	latency int
	waited  int
}

// edge reports whether a handshake completes at this rising edge, latches
// the inputs for the next one and computes the ready signal.
func (c *channel) edge() (accepted bool, value uint64) {
	if c.latchedValid && c.ready {
		accepted = true
		value = c.latchedValue
		c.waited = 0
	}

	c.latchedValid = c.valid
	c.latchedValue = c.value

	switch {
	case c.latency == 0:
		c.ready = true
	case accepted || !c.latchedValid:
		c.ready = false
		c.waited = 0
	default:
		c.waited++
		c.ready = c.waited >= c.latency
	}

	return accepted, value
}

func (c *channel) reset() {
	*c = channel{latency: c.latency}
}

// Model is a software device under test.
type Model struct {
	cfg Config

	writeAddr channel
	writeData channel
	readAddr  channel

	pendingWrite     bool
	pendingWriteAddr uint64
	pendingWriteData bool
	pendingData      uint64

	respReady        bool
	respLatchedReady bool
	respValid        bool
	respData         uint64
	respPending      bool
	respDelay        int

	devClk, sysClk      bool
	prevDevClk, prevSys bool
	resetReleased       bool

	check  dut.CheckRequest
	checks []dut.CheckRequest

	registers    map[uint64]uint64
	busy         bool
	jobRemaining uint64
	interrupt    bool
	errors       uint64

	evals               uint64
	writes, reads, jobs uint64
	finalized           bool
}

var _ dut.Device = (*Model)(nil)

// New creates a model in reset.
func New(cfg Config) *Model {
	m := &Model{cfg: cfg}
	m.writeAddr.latency = cfg.WriteAddressLatency
	m.writeData.latency = cfg.WriteDataLatency
	m.readAddr.latency = cfg.ReadAddressLatency
	m.reset()

	return m
}

func (m *Model) reset() {
	m.writeAddr.reset()
	m.writeData.reset()
	m.readAddr.reset()

	m.pendingWrite = false
	m.pendingWriteData = false
	m.respValid = false
	m.respPending = false
	m.respLatchedReady = false
	m.busy = false
	m.interrupt = false

	m.registers = make(map[uint64]uint64, len(m.cfg.Registers))
	for addr, v := range m.cfg.Registers {
		m.registers[addr] = v
	}

	if m.cfg.InterruptEnabled {
		m.registers[RegInterruptEnable] |= 1
	}
}

// DriveWriteAddress drives the write-address channel.
func (m *Model) DriveWriteAddress(valid bool, addr uint64) {
	m.writeAddr.valid = valid
	m.writeAddr.value = addr
}

// WriteAddressReady returns the write-address ready signal.
func (m *Model) WriteAddressReady() bool {
	return m.writeAddr.ready
}

// DriveWriteData drives the write-data channel.
func (m *Model) DriveWriteData(valid bool, data uint64) {
	m.writeData.valid = valid
	m.writeData.value = data
}

// WriteDataReady returns the write-data ready signal.
func (m *Model) WriteDataReady() bool {
	return m.writeData.ready
}

// DriveReadAddress drives the read-address channel.
func (m *Model) DriveReadAddress(valid bool, addr uint64) {
	m.readAddr.valid = valid
	m.readAddr.value = addr
}

// ReadAddressReady returns the read-address ready signal.
func (m *Model) ReadAddressReady() bool {
	return m.readAddr.ready
}

// DriveReadResponseReady drives the ready signal of the read response.
func (m *Model) DriveReadResponseReady(ready bool) {
	m.respReady = ready
}

// ReadResponseValid returns the read response valid signal.
func (m *Model) ReadResponseValid() bool {
	return m.respValid
}

// ReadResponseData returns the read response payload.
func (m *Model) ReadResponseData() uint64 {
	return m.respData
}

// DriveDeviceClock drives the device clock.
func (m *Model) DriveDeviceClock(high bool) {
	m.devClk = high
}

// DriveSystemClock drives the system clock.
func (m *Model) DriveSystemClock(high bool) {
	m.sysClk = high
}

// DriveReset drives the active-low reset of both domains.
func (m *Model) DriveReset(released bool) {
	m.resetReleased = released
}

// DriveCheck drives the check request signals.
func (m *Model) DriveCheck(req dut.CheckRequest) {
	m.check = req
}

// Interrupt returns the completion interrupt.
func (m *Model) Interrupt() bool {
	return m.interrupt
}

// Errors returns the error count of the last checked test.
func (m *Model) Errors() uint64 {
	return m.errors
}

// Finished reports whether the model asked the simulation to stop.
func (m *Model) Finished() bool {
	return m.cfg.FinishAfter != 0 && m.evals >= m.cfg.FinishAfter
}

// Eval propagates the inputs. Sequential logic runs on the rising edges of
// the clocks, as seen since the previous evaluation.
func (m *Model) Eval() {
	m.evals++

	sysRise := m.sysClk && !m.prevSys
	devRise := m.devClk && !m.prevDevClk
	m.prevSys = m.sysClk
	m.prevDevClk = m.devClk

	if !m.resetReleased {
		m.reset()
		return
	}

	if devRise {
		m.deviceEdge()
	}

	if sysRise {
		m.systemEdge()
	}

	if m.check.Pulse {
		m.checks = append(m.checks, m.check)
		m.errors = m.cfg.TestErrors[m.check.TestIndex]
	}
}

// Final marks the end of the simulation.
func (m *Model) Final() {
	m.finalized = true
}

func (m *Model) systemEdge() {
	m.responseEdge()
	m.writeEdge()
	m.readEdge()
}

func (m *Model) writeEdge() {
	if ok, addr := m.writeAddr.edge(); ok {
		m.pendingWrite = true
		m.pendingWriteAddr = addr
	}

	if ok, data := m.writeData.edge(); ok {
		m.pendingWriteData = true
		m.pendingData = data
	}

	if m.pendingWrite && m.pendingWriteData {
		m.pendingWrite = false
		m.pendingWriteData = false
		m.store(m.pendingWriteAddr, m.pendingData)
	}
}

func (m *Model) readEdge() {
	ok, addr := m.readAddr.edge()
	if !ok {
		return
	}

	m.reads++
	m.respPending = true
	m.respDelay = m.cfg.ReadResponseLatency
	m.respData = m.load(addr)
	m.advanceResponse()
}

// responseEdge completes the read response when the master was ready at
// the previous edge.
func (m *Model) responseEdge() {
	if m.respValid && m.respLatchedReady {
		m.respValid = false
	}

	m.respLatchedReady = m.respReady

	if m.respPending {
		m.advanceResponse()
	}
}

func (m *Model) advanceResponse() {
	if m.respDelay > 0 {
		m.respDelay--
		return
	}

	if m.respValid {
		return
	}

	m.respPending = false
	m.respValid = true
}

func (m *Model) deviceEdge() {
	if !m.busy {
		return
	}

	if m.jobRemaining > 0 {
		m.jobRemaining--
	}

	if m.jobRemaining == 0 {
		m.completeJob()
	}
}

func (m *Model) completeJob() {
	m.busy = false
	m.jobs++

	if m.registers[RegInterruptEnable]&1 != 0 {
		m.interrupt = true
	}
}

func (m *Model) store(addr, data uint64) {
	m.writes++

	switch addr {
	case RegControl:
		m.registers[addr] = data
		if data&1 != 0 && !m.busy {
			m.busy = true
			m.jobRemaining = m.cfg.JobCycles
			if m.jobRemaining == 0 {
				m.completeJob()
			}
		}
	case RegInterruptAck:
		m.interrupt = false
	case RegStatus:
	default:
		m.registers[addr] = data
	}
}

func (m *Model) load(addr uint64) uint64 {
	if addr == RegStatus {
		if m.busy {
			return 1
		}

		return 0
	}

	v, ok := m.registers[addr]
	if !ok {
		return m.cfg.UnmappedValue
	}

	return v
}

// Register returns the stored value of a register.
func (m *Model) Register(addr uint64) (uint64, bool) {
	v, ok := m.registers[addr]
	return v, ok
}

// Checks returns the check requests the model has received.
func (m *Model) Checks() []dut.CheckRequest {
	return append([]dut.CheckRequest(nil), m.checks...)
}

// Busy reports whether a job is running.
func (m *Model) Busy() bool {
	return m.busy
}

// Counters returns the number of completed writes, reads and jobs.
func (m *Model) Counters() (writes, reads, jobs uint64) {
	return m.writes, m.reads, m.jobs
}

// Finalized reports whether Final has been called.
func (m *Model) Finalized() bool {
	return m.finalized
}
