// Package timing provides the time base of the harness: a monotonically
// increasing tick counter from which the device clock, the system clock and
// the reset release are derived by modulo arithmetic.
package timing

import (
	"errors"
	"fmt"
)

// VTimeInTick is the simulated time measured in ticks, the finest time unit
// of the harness.
type VTimeInTick uint64

var (
	// ErrZeroPeriod is returned when a clock is defined with a zero period.
	ErrZeroPeriod = errors.New("timing: clock period must be positive")

	// ErrPhaseOutOfRange is returned when a clock edge is placed outside of
	// its period.
	ErrPhaseOutOfRange = errors.New("timing: clock edge outside of period")

	// ErrPhasesCollide is returned when the rising and the falling edge of a
	// clock fall on the same tick.
	ErrPhasesCollide = errors.New("timing: rising and falling edge collide")

	// ErrActivationBeforeReset is returned when the sequencer would act
	// while the device is still held in reset.
	ErrActivationBeforeReset = errors.New(
		"timing: activation tick precedes reset release")
)

// Edge is the transition a clock makes at a given tick.
type Edge int

// The edges a clock can make.
const (
	EdgeNone Edge = iota
	EdgeRise
	EdgeFall
)

func (e Edge) String() string {
	switch e {
	case EdgeRise:
		return "rise"
	case EdgeFall:
		return "fall"
	default:
		return "none"
	}
}

// Clock is a periodic signal derived from the tick counter. The clock rises
// at every tick t with t%Period == RiseAt and falls at t%Period == FallAt.
type Clock struct {
	Name   string
	Period VTimeInTick
	RiseAt VTimeInTick
	FallAt VTimeInTick
}

// DeviceClock is the clock internal to the device under test.
var DeviceClock = Clock{Name: "clk_dev", Period: 20, RiseAt: 0, FallAt: 10}

// SystemClock is the clock of the configuration bus.
var SystemClock = Clock{Name: "clk_sys", Period: 10, RiseAt: 0, FallAt: 5}

// Validate checks that the clock describes a well-formed periodic signal.
func (c Clock) Validate() error {
	if c.Period == 0 {
		return fmt.Errorf("%w: %s", ErrZeroPeriod, c.Name)
	}

	if c.RiseAt >= c.Period || c.FallAt >= c.Period {
		return fmt.Errorf("%w: %s rise %d fall %d period %d",
			ErrPhaseOutOfRange, c.Name, c.RiseAt, c.FallAt, c.Period)
	}

	if c.RiseAt == c.FallAt {
		return fmt.Errorf("%w: %s at %d", ErrPhasesCollide, c.Name, c.RiseAt)
	}

	return nil
}

// EdgeAt returns the transition the clock makes at tick t.
func (c Clock) EdgeAt(t VTimeInTick) Edge {
	switch t % c.Period {
	case c.RiseAt:
		return EdgeRise
	case c.FallAt:
		return EdgeFall
	default:
		return EdgeNone
	}
}

// LevelAt returns whether the clock is high at tick t, after the edge of
// that tick has been applied.
func (c Clock) LevelAt(t VTimeInTick) bool {
	phase := t % c.Period

	if c.RiseAt < c.FallAt {
		return phase >= c.RiseAt && phase < c.FallAt
	}

	return phase >= c.RiseAt || phase < c.FallAt
}
