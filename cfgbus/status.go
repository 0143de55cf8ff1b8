package cfgbus

import "fmt"

// Status is the completion mask of the transaction in flight. Bit 0 records
// the address handshake, bit 1 the data (write) or response (read)
// handshake.
type Status uint8

// Status bits.
const (
	StatusAddr     Status = 1 << 0
	StatusData     Status = 1 << 1
	StatusComplete        = StatusAddr | StatusData
)

// Complete reports whether both handshakes have happened.
func (s Status) Complete() bool {
	return s == StatusComplete
}

func (s Status) String() string {
	return fmt.Sprintf("%02b", uint8(s))
}

// Kind is the type of the transaction occupying the bus.
type Kind int

// Transaction kinds.
const (
	KindNone Kind = iota
	KindWrite
	KindRead
)

func (k Kind) String() string {
	switch k {
	case KindWrite:
		return "write"
	case KindRead:
		return "read"
	default:
		return "none"
	}
}
