package timing

import "fmt"

// Builder can build time bases.
type Builder struct {
	deviceClock       Clock
	systemClock       Clock
	resetReleaseAfter VTimeInTick
	activateAfter     VTimeInTick
	maxTicks          VTimeInTick
}

// MakeBuilder creates a builder with the default clocks. Reset is held until
// tick 100 and the sequencer starts acting after tick 120.
func MakeBuilder() Builder {
	return Builder{
		deviceClock:       DeviceClock,
		systemClock:       SystemClock,
		resetReleaseAfter: 100,
		activateAfter:     120,
	}
}

// WithDeviceClock sets the device clock.
func (b Builder) WithDeviceClock(c Clock) Builder {
	b.deviceClock = c
	return b
}

// WithSystemClock sets the system clock.
func (b Builder) WithSystemClock(c Clock) Builder {
	b.systemClock = c
	return b
}

// WithResetReleaseAfter sets the last tick at which reset is still held.
func (b Builder) WithResetReleaseAfter(t VTimeInTick) Builder {
	b.resetReleaseAfter = t
	return b
}

// WithActivateAfter sets the last tick before the sequencer starts acting.
func (b Builder) WithActivateAfter(t VTimeInTick) Builder {
	b.activateAfter = t
	return b
}

// WithMaxTicks sets the tick budget. Zero disables the budget.
func (b Builder) WithMaxTicks(n VTimeInTick) Builder {
	b.maxTicks = n
	return b
}

// Build creates the time base.
func (b Builder) Build() (*TimeBase, error) {
	if err := b.deviceClock.Validate(); err != nil {
		return nil, err
	}

	if err := b.systemClock.Validate(); err != nil {
		return nil, err
	}

	if b.activateAfter < b.resetReleaseAfter {
		return nil, fmt.Errorf("%w: activate after %d, reset until %d",
			ErrActivationBeforeReset, b.activateAfter, b.resetReleaseAfter)
	}

	tb := &TimeBase{
		deviceClock:       b.deviceClock,
		systemClock:       b.systemClock,
		resetReleaseAfter: b.resetReleaseAfter,
		activateAfter:     b.activateAfter,
		maxTicks:          b.maxTicks,
	}

	return tb, nil
}
