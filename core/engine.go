// Package core executes resolved programs against a growable memory tape.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/tape"
)

// checkInterval is how many instructions RunContext executes between checks
// of the context.
const checkInterval = 1024

// Engine runs programs. It owns its tape and cursor; after a run both stay
// observable and a later run continues on the same tape.
type Engine struct {
	initial []uint64
	size    int
	width   tape.CellWidth

	tape   *tape.Tape
	cursor int
	pc     int
	steps  uint64
	budget uint64

	in  InputChannel
	out OutputChannel
}

type instFunc func(e *Engine, inst program.Instruction) error

var instFuncs = [...]instFunc{
	program.MovePointerForward:  (*Engine).runMoveForward,
	program.MovePointerBackward: (*Engine).runMoveBackward,
	program.IncrementCell:       (*Engine).runIncrement,
	program.DecrementCell:       (*Engine).runDecrement,
	program.OutputCell:          (*Engine).runOutput,
	program.InputCell:           (*Engine).runInput,
	program.LoopStart:           (*Engine).runLoopStart,
	program.LoopEnd:             (*Engine).runLoopEnd,
}

// Run executes p from its first instruction to its end. Output is flushed
// before Run returns, also when it returns an error.
func (e *Engine) Run(p *program.Program) error {
	return e.RunContext(context.Background(), p)
}

// RunContext is Run bounded by ctx and by the step budget of the engine. The
// context is checked every checkInterval instructions.
func (e *Engine) RunContext(ctx context.Context, p *program.Program) (err error) {
	e.Rewind()

	defer func() {
		if flushErr := e.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}

		Trace("RunDone",
			"PC", e.pc, "Steps", e.steps, "Cursor", e.cursor, "Err", err)
		LogState(e)
		PrintState(e)
	}()

	for n := 0; e.pc < p.Len(); n++ {
		if n%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if e.budget > 0 && e.steps >= e.budget {
			return fmt.Errorf("%w: %d steps", ErrStepBudgetExceeded, e.budget)
		}

		if err := e.exec(p); err != nil {
			return err
		}
	}

	return nil
}

// Step executes the instruction at the program counter. It reports done once
// the program counter has reached the end of p. Step does not flush output.
func (e *Engine) Step(p *program.Program) (done bool, err error) {
	if e.pc >= p.Len() {
		return true, nil
	}

	if err := e.exec(p); err != nil {
		return false, err
	}

	return e.pc >= p.Len(), nil
}

func (e *Engine) exec(p *program.Program) error {
	inst := p.At(e.pc)

	if traceEnabled() {
		Trace("Inst",
			"PC", e.pc, "Op", inst.Opcode.Name(),
			"Cursor", e.cursor, "Cell", e.tape.Get(e.cursor))
	}

	if int(inst.Opcode) >= len(instFuncs) || instFuncs[inst.Opcode] == nil {
		panic(fmt.Sprintf("unknown opcode %d at PC %d", byte(inst.Opcode), e.pc))
	}

	if err := instFuncs[inst.Opcode](e, inst); err != nil {
		return &ExecError{PC: e.pc, Opcode: inst.Opcode, Pos: inst.Pos, Err: err}
	}

	e.pc++
	e.steps++

	return nil
}

func (e *Engine) runMoveForward(_ program.Instruction) error {
	e.cursor++
	if e.cursor >= e.tape.Len() {
		e.tape.Grow()
	}
	return nil
}

func (e *Engine) runMoveBackward(_ program.Instruction) error {
	if e.cursor == 0 {
		return ErrPointerUnderflow
	}
	e.cursor--
	return nil
}

func (e *Engine) runIncrement(_ program.Instruction) error {
	e.tape.Inc(e.cursor)
	return nil
}

func (e *Engine) runDecrement(_ program.Instruction) error {
	e.tape.Dec(e.cursor)
	return nil
}

func (e *Engine) runOutput(_ program.Instruction) error {
	if e.out == nil {
		return nil
	}

	if err := e.out.WriteCell(e.tape.Get(e.cursor)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (e *Engine) runInput(_ program.Instruction) error {
	if e.in == nil {
		return nil
	}

	v, err := e.in.ReadCell()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInput, err)
	}

	e.tape.Set(e.cursor, v)
	return nil
}

// The jump functions move the program counter onto the partner bracket; the
// increment that follows every instruction then steps past it.
func (e *Engine) runLoopStart(inst program.Instruction) error {
	if e.tape.Get(e.cursor) == 0 {
		e.pc = inst.Target
	}
	return nil
}

func (e *Engine) runLoopEnd(inst program.Instruction) error {
	if e.tape.Get(e.cursor) != 0 {
		e.pc = inst.Target
	}
	return nil
}

// Rewind moves the program counter back to the first instruction and clears
// the step count. The tape and cursor are kept.
func (e *Engine) Rewind() {
	e.pc = 0
	e.steps = 0
}

// Reset restores the initial tape and moves the cursor and the program
// counter back to zero.
func (e *Engine) Reset() {
	e.tape = tape.FromValues(e.initial, e.size, e.width)
	e.cursor = 0
	e.Rewind()
}

// Flush flushes the output channel.
func (e *Engine) Flush() error {
	if e.out == nil {
		return nil
	}

	if err := e.out.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// SetInput replaces the input channel. A nil channel makes InputCell a no-op.
func (e *Engine) SetInput(in InputChannel) {
	e.in = in
}

// SetOutput replaces the output channel. A nil channel discards output.
func (e *Engine) SetOutput(out OutputChannel) {
	e.out = out
}

// Tape returns the live tape. It must not be modified while a run is in
// progress.
func (e *Engine) Tape() *tape.Tape {
	return e.tape
}

// Cursor returns the index of the current cell.
func (e *Engine) Cursor() int {
	return e.cursor
}

// Cell returns the value of the current cell.
func (e *Engine) Cell() uint64 {
	return e.tape.Get(e.cursor)
}

// PC returns the index of the next instruction to execute.
func (e *Engine) PC() int {
	return e.pc
}

// Steps returns the number of instructions executed since the last rewind.
func (e *Engine) Steps() uint64 {
	return e.steps
}

// Width returns the cell width.
func (e *Engine) Width() tape.CellWidth {
	return e.width
}
