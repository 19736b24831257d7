// Package api defines a driver that runs programs as an akita simulation, one
// instruction per cycle.
package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
)

// ErrCycleBudgetExceeded is returned by Run when the program did not finish
// within the configured number of cycles.
var ErrCycleBudgetExceeded = errors.New("cycle budget exceeded")

// HookPosInstExec marks the execution of an instruction. The hook item is
// the instruction and the detail is its program counter.
var HookPosInstExec = &sim.HookPos{Name: "Inst Exec"}

// Driver provides the interface to run a program on a simulated machine.
type Driver interface {
	// MapProgram loads the program to run. The machine keeps its tape, so a
	// program mapped after a run continues where the previous one stopped.
	MapProgram(p *program.Program)

	// FeedIn appends values to the input consumed by InputCell instructions.
	FeedIn(data []uint64)

	// Collect returns the values emitted so far.
	Collect() []uint64

	// Run simulates until the program ends, fails, or runs out of cycles.
	Run() error

	// Machine returns the execution engine stepped by the driver.
	Machine() *core.Engine

	// Cycles returns the number of cycles simulated over all runs.
	Cycles() uint64
}

type driverImpl struct {
	*sim.TickingComponent

	machine   *core.Engine
	prog      *program.Program
	feedIn    *feedInTask
	collector *core.Collector

	maxCycles uint64
	cycles    uint64
	runStart  uint64 // cycles when the current program was mapped
	finished  bool
	err       error
}

// Tick runs the driver for one cycle.
func (d *driverImpl) Tick() (madeProgress bool) {
	if d.prog == nil || d.finished {
		return false
	}

	pc := d.machine.PC()
	if pc >= d.prog.Len() {
		d.finish(nil)
		return false
	}

	if d.maxCycles > 0 && d.cycles-d.runStart >= d.maxCycles {
		d.finish(fmt.Errorf("%w: %d cycles", ErrCycleBudgetExceeded, d.maxCycles))
		return false
	}

	inst := d.prog.At(pc)
	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    HookPosInstExec,
		Item:   inst,
		Detail: pc,
	})

	done, err := d.machine.Step(d.prog)
	d.cycles++

	core.Trace("Inst",
		"Time", float64(d.Engine.CurrentTime()*1e9),
		"Driver", d.Name(),
		"PC", pc,
		"Op", inst.Opcode.Name(),
		"Cursor", d.machine.Cursor(),
	)

	switch {
	case err != nil:
		d.finish(err)
	case done:
		d.finish(nil)
	}

	return true
}

func (d *driverImpl) finish(err error) {
	d.finished = true
	d.err = err

	core.Trace("DriverDone",
		"Driver", d.Name(), "Cycles", d.cycles, "Err", err)
}

// MapProgram loads the program to run.
func (d *driverImpl) MapProgram(p *program.Program) {
	d.prog = p
	d.runStart = d.cycles
	d.finished = false
	d.err = nil
	d.machine.Rewind()
}

// FeedIn appends values to the input of the machine.
func (d *driverImpl) FeedIn(data []uint64) {
	d.feedIn.data = append(d.feedIn.data, data...)
}

// Collect returns the values emitted so far.
func (d *driverImpl) Collect() []uint64 {
	return d.collector.Values()
}

// Run runs the mapped program.
func (d *driverImpl) Run() error {
	if d.prog == nil {
		return errors.New("no program mapped")
	}

	// The last tick of a previous run sits at the current time, which
	// TickNow would not schedule again.
	d.TickLater()
	if err := d.Engine.Run(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	core.LogState(d.machine)

	return d.err
}

// Machine returns the stepped execution engine.
func (d *driverImpl) Machine() *core.Engine {
	return d.machine
}

// Cycles returns the number of simulated cycles.
func (d *driverImpl) Cycles() uint64 {
	return d.cycles
}

type feedInTask struct {
	data  []uint64
	round int
}

func (t *feedInTask) isFinished() bool {
	return t.round >= len(t.data)
}

// ReadCell hands out the fed values in order.
func (t *feedInTask) ReadCell() (uint64, error) {
	if t.isFinished() {
		return 0, io.EOF
	}

	v := t.data[t.round]
	t.round++

	return v, nil
}
