package regfile

// Register addresses with a behavior. Every other address is plain storage.
const (
	// RegControl starts a job when bit 0 is written.
	RegControl uint64 = 0x0

	// RegStatus reads 1 while a job is running.
	RegStatus uint64 = 0x4

	// RegInterruptEnable enables the completion interrupt when bit 0 is set.
	RegInterruptEnable uint64 = 0x8

	// RegInterruptAck clears the interrupt on any write.
	RegInterruptAck uint64 = 0xC
)

// Config describes the timing and the injected behavior of the model.
type Config struct {
	// Latencies are counted in system-clock rising edges between a valid
	// signal being seen and the matching ready (or response valid) being
	// raised. Zero means always ready.
	WriteAddressLatency int
	WriteDataLatency    int
	ReadAddressLatency  int
	ReadResponseLatency int

	// JobCycles is the duration of a job in device-clock cycles.
	JobCycles uint64

	// InterruptEnabled is the reset value of RegInterruptEnable bit 0.
	InterruptEnabled bool

	// UnmappedValue is returned by reads of addresses never written.
	UnmappedValue uint64

	// TestErrors is the error count reported when a test is checked.
	TestErrors map[int]uint64

	// Registers holds initial register values.
	Registers map[uint64]uint64

	// FinishAfter makes the model signal finish after that many
	// evaluations. Zero means never.
	FinishAfter uint64
}
