package timing

import "fmt"

// Phase describes everything that happens at one tick: the clock edges to
// apply, the reset level and whether the sequencer acts.
type Phase struct {
	Tick          VTimeInTick
	DeviceEdge    Edge
	SystemEdge    Edge
	ResetReleased bool

	// Active is true on system-clock rising edges after the activation tick.
	Active bool
}

// TimeBase owns the tick counter of a run. It is the only holder of the
// current time; every other component receives the tick from it.
type TimeBase struct {
	now VTimeInTick

	deviceClock       Clock
	systemClock       Clock
	resetReleaseAfter VTimeInTick
	activateAfter     VTimeInTick
	maxTicks          VTimeInTick
}

// Now returns the current tick.
func (tb *TimeBase) Now() VTimeInTick {
	return tb.now
}

// DeviceClock returns the device clock definition.
func (tb *TimeBase) DeviceClock() Clock {
	return tb.deviceClock
}

// SystemClock returns the system clock definition.
func (tb *TimeBase) SystemClock() Clock {
	return tb.systemClock
}

// MaxTicks returns the tick budget. Zero means unlimited.
func (tb *TimeBase) MaxTicks() VTimeInTick {
	return tb.maxTicks
}

// Phase returns the edges and levels of the current tick.
func (tb *TimeBase) Phase() Phase {
	p := Phase{
		Tick:          tb.now,
		DeviceEdge:    tb.deviceClock.EdgeAt(tb.now),
		SystemEdge:    tb.systemClock.EdgeAt(tb.now),
		ResetReleased: tb.now > tb.resetReleaseAfter,
	}

	p.Active = p.SystemEdge == EdgeRise && tb.now > tb.activateAfter

	return p
}

// Advance moves the time base to the next tick.
func (tb *TimeBase) Advance() {
	tb.now++
}

// BudgetExhausted reports whether the tick budget has been used up.
func (tb *TimeBase) BudgetExhausted() bool {
	return tb.maxTicks != 0 && tb.now >= tb.maxTicks
}

func (tb *TimeBase) String() string {
	return fmt.Sprintf("tick %d", tb.now)
}
