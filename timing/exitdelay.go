package timing

// ExitDelay is a bounded countdown that keeps the tick loop running for a
// number of system-clock periods after a failure, so that trace sinks can
// capture what happened around it.
type ExitDelay struct {
	armed     bool
	remaining uint64
}

// Arm starts the countdown. Arming an already armed delay has no effect.
func (d *ExitDelay) Arm(periods uint64) {
	if d.armed {
		return
	}

	d.armed = true
	d.remaining = periods
}

// Armed reports whether the countdown has started.
func (d *ExitDelay) Armed() bool {
	return d.armed
}

// Remaining returns the number of system periods left.
func (d *ExitDelay) Remaining() uint64 {
	return d.remaining
}

// Observe counts down on every system-clock rising edge once armed.
func (d *ExitDelay) Observe(p Phase) {
	if !d.armed || d.remaining == 0 {
		return
	}

	if p.SystemEdge == EdgeRise {
		d.remaining--
	}
}

// Expired reports whether the countdown has reached zero.
func (d *ExitDelay) Expired() bool {
	return d.armed && d.remaining == 0
}
