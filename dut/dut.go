// Package dut defines the capabilities the harness needs from a device under
// test. The device itself is opaque: the harness only drives and samples the
// signals listed here, and evaluates the device once per tick.
package dut

// WriteAddressChannel is the write-address half of the configuration bus.
type WriteAddressChannel interface {
	DriveWriteAddress(valid bool, addr uint64)
	WriteAddressReady() bool
}

// WriteDataChannel is the write-data half of the configuration bus.
type WriteDataChannel interface {
	DriveWriteData(valid bool, data uint64)
	WriteDataReady() bool
}

// ReadAddressChannel is the read-address half of the configuration bus.
type ReadAddressChannel interface {
	DriveReadAddress(valid bool, addr uint64)
	ReadAddressReady() bool
}

// ReadResponseChannel is the read-response half of the configuration bus.
type ReadResponseChannel interface {
	DriveReadResponseReady(ready bool)
	ReadResponseValid() bool
	ReadResponseData() uint64
}

// Bus groups the four channels of the configuration bus.
type Bus interface {
	WriteAddressChannel
	WriteDataChannel
	ReadAddressChannel
	ReadResponseChannel
}

// CheckRequest asks the device to validate a memory window against its
// golden data. Pulse is held for exactly one tick per request.
type CheckRequest struct {
	Pulse        bool
	TestIndex    int
	Start        uint64
	End          uint64
	OutputOffset uint64
}

// Signals are the level signals of the device.
type Signals interface {
	DriveDeviceClock(high bool)
	DriveSystemClock(high bool)
	DriveReset(released bool)
	DriveCheck(req CheckRequest)

	Interrupt() bool
	Errors() uint64
	Finished() bool
}

// Device is the full register-level interface of a device under test.
type Device interface {
	Bus
	Signals

	// Eval propagates the driven inputs through the device.
	Eval()

	// Final is called once after the last evaluation.
	Final()
}

// InterruptLine is the view of the device the sequencer needs while
// waiting for completion.
type InterruptLine interface {
	Interrupt() bool
}
