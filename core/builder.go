package core

import (
	"fmt"
	"io"

	"github.com/sarchlab/tapevm/tape"
)

// Builder can create new engines.
type Builder struct {
	tapeSize  int
	initial   []uint64
	width     tape.CellWidth
	mode      OutputMode
	signed    bool
	separator string
	budget    uint64

	in     InputChannel
	out    OutputChannel
	reader io.Reader
	writer io.Writer
}

// MakeBuilder returns a builder with the default configuration: 30000 zero
// cells of 8 bits, character output, no input and no output sink.
func MakeBuilder() Builder {
	return Builder{
		tapeSize:  tape.DefaultSize,
		width:     tape.Width8,
		mode:      OutputChar,
		separator: "\n",
	}
}

// WithTapeSize sets the minimum number of cells of the initial tape.
func (b Builder) WithTapeSize(size int) Builder {
	if size < 1 {
		panic("tape size must be at least 1")
	}
	b.tapeSize = size
	return b
}

// WithInitialTape sets the initial cell values. The tape is padded with
// zeros up to the tape size.
func (b Builder) WithInitialTape(values []uint64) Builder {
	b.initial = append([]uint64(nil), values...)
	return b
}

// WithCellWidth sets the width of a cell.
func (b Builder) WithCellWidth(width tape.CellWidth) Builder {
	if !width.Valid() {
		panic(fmt.Sprintf("invalid cell width %d", width))
	}
	b.width = width
	return b
}

// WithOutputMode sets how emitted cells are rendered when the output is
// given with WithWriter.
func (b Builder) WithOutputMode(mode OutputMode) Builder {
	if mode != OutputChar && mode != OutputNumber {
		panic(fmt.Sprintf("invalid output mode %d", mode))
	}
	b.mode = mode
	return b
}

// WithSigned renders numeric output as two's complement values.
func (b Builder) WithSigned(signed bool) Builder {
	b.signed = signed
	return b
}

// WithSeparator sets the text written after each numeric output value.
func (b Builder) WithSeparator(sep string) Builder {
	b.separator = sep
	return b
}

// WithStepBudget limits the number of instructions a run may execute. Zero
// means no limit.
func (b Builder) WithStepBudget(steps uint64) Builder {
	b.budget = steps
	return b
}

// WithInput sets the input channel. It takes precedence over WithReader.
func (b Builder) WithInput(in InputChannel) Builder {
	b.in = in
	return b
}

// WithOutput sets the output channel. It takes precedence over WithWriter.
func (b Builder) WithOutput(out OutputChannel) Builder {
	b.out = out
	return b
}

// WithReader reads input from r, one byte per cell in character mode and
// one decimal integer per cell in number mode.
func (b Builder) WithReader(r io.Reader) Builder {
	b.reader = r
	return b
}

// WithWriter writes output to w, rendered according to the output mode.
func (b Builder) WithWriter(w io.Writer) Builder {
	b.writer = w
	return b
}

// Build creates an engine.
func (b Builder) Build() *Engine {
	e := &Engine{
		initial: b.initial,
		size:    b.tapeSize,
		width:   b.width,
		budget:  b.budget,
		in:      b.buildInput(),
		out:     b.buildOutput(),
	}

	e.Reset()

	return e
}

func (b Builder) buildInput() InputChannel {
	switch {
	case b.in != nil:
		return b.in
	case b.reader == nil:
		return nil
	case b.mode == OutputNumber:
		return NewNumberInput(b.reader)
	default:
		return NewByteInput(b.reader)
	}
}

func (b Builder) buildOutput() OutputChannel {
	switch {
	case b.out != nil:
		return b.out
	case b.writer == nil:
		return nil
	case b.mode == OutputNumber:
		return NewNumberOutput(b.writer, b.width, b.signed, b.separator)
	default:
		return NewCharOutput(b.writer, b.width)
	}
}
