package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tapevm/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine     sim.Engine
	freq       sim.Freq
	machine    core.Builder
	hasMachine bool
	maxCycles  uint64
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithMachine sets the builder of the execution engine the driver steps.
// Its input and output channels are replaced by the driver's.
func (b DriverBuilder) WithMachine(machine core.Builder) DriverBuilder {
	b.machine = machine
	b.hasMachine = true
	return b
}

// WithMaxCycles limits the number of cycles a run may take. Zero means no
// limit.
func (b DriverBuilder) WithMaxCycles(cycles uint64) DriverBuilder {
	b.maxCycles = cycles
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("driver needs an engine")
	}

	machine := core.MakeBuilder()
	if b.hasMachine {
		machine = b.machine
	}

	d := &driverImpl{
		machine:   machine.Build(),
		feedIn:    &feedInTask{},
		collector: core.NewCollector(),
		maxCycles: b.maxCycles,
	}
	d.machine.SetInput(d.feedIn)
	d.machine.SetOutput(d.collector)

	freq := b.freq
	if freq == 0 {
		freq = 1 * sim.GHz
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, freq, d)

	return d
}
