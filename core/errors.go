package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/tapevm/program"
)

var (
	// ErrPointerUnderflow is returned when the cursor would move left of the
	// first cell. It is always fatal; the cursor is never clamped.
	ErrPointerUnderflow = errors.New("pointer underflow")

	// ErrStepBudgetExceeded is returned by a bounded run that executed its
	// whole instruction budget without finishing.
	ErrStepBudgetExceeded = errors.New("step budget exceeded")

	// ErrInput wraps a failure of the input channel other than end of input.
	ErrInput = errors.New("input failed")
)

// ExecError reports the instruction at which execution stopped.
type ExecError struct {
	PC     int
	Opcode program.Opcode
	Pos    program.Position
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: %s at pc %d, source %s",
		e.Err, e.Opcode.Name(), e.PC, e.Pos)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
