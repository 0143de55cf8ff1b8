package sequencer

import (
	"log"

	"github.com/sarchlab/cfgreplay/dut"
	"github.com/sarchlab/cfgreplay/hooking"
	"github.com/sarchlab/cfgreplay/stimulus"
)

// Builder can build sequencers.
type Builder struct {
	cfg        Config
	totalTests int
	bus        BusEngine
	irq        dut.InterruptLine
	validator  Validator
	sink       ReadSink
	logger     *log.Logger
}

// MakeBuilder creates a Builder with the write-only configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg: DefaultConfig,
	}
}

// WithConfig sets the optional behaviors.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithTotalTests sets the number of tests the run declares.
func (b Builder) WithTotalTests(n int) Builder {
	b.totalTests = n
	return b
}

// WithBus sets the bus engine that carries the transactions.
func (b Builder) WithBus(bus BusEngine) Builder {
	b.bus = bus
	return b
}

// WithInterruptLine sets the device completion signal.
func (b Builder) WithInterruptLine(irq dut.InterruptLine) Builder {
	b.irq = irq
	return b
}

// WithValidator sets the end-of-test checker.
func (b Builder) WithValidator(v Validator) Builder {
	b.validator = v
	return b
}

// WithReadSink sets where read payloads go. It is optional.
func (b Builder) WithReadSink(sink ReadSink) Builder {
	b.sink = sink
	return b
}

// WithLogger enables verbose progress lines.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// Build creates a sequencer that replays table from its first row.
func (b Builder) Build(name string, table *stimulus.Table) *Sequencer {
	b.mustBeComplete()

	return &Sequencer{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		cfg:          b.cfg,
		cursor:       stimulus.NewCursor(table),
		rows:         table.Len(),
		totalTests:   b.totalTests,
		bus:          b.bus,
		irq:          b.irq,
		validator:    b.validator,
		sink:         b.sink,
		logger:       b.logger,
		state:        StateActive,
	}
}

func (b Builder) mustBeComplete() {
	if b.bus == nil {
		panic("sequencer requires a bus engine")
	}

	if b.irq == nil {
		panic("sequencer requires an interrupt line")
	}

	if b.validator == nil {
		panic("sequencer requires a validator")
	}
}
