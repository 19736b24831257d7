package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/tapevm/tape"
)

// InputChannel supplies cell values to the InputCell instruction. ReadCell
// returns io.EOF when no more input is available.
type InputChannel interface {
	ReadCell() (uint64, error)
}

// OutputChannel receives the values emitted by the OutputCell instruction.
// Implementations may buffer; Flush is called before a run returns.
type OutputChannel interface {
	WriteCell(v uint64) error
	Flush() error
}

// OutputMode selects how emitted cells are rendered.
type OutputMode int

// Output modes.
const (
	// OutputChar writes each cell as a character.
	OutputChar OutputMode = iota
	// OutputNumber writes each cell as a decimal integer followed by a
	// separator.
	OutputNumber
)

func (m OutputMode) String() string {
	switch m {
	case OutputChar:
		return "char"
	case OutputNumber:
		return "number"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// ParseOutputMode converts "char" or "number" to an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch s {
	case "char":
		return OutputChar, nil
	case "number":
		return OutputNumber, nil
	default:
		return 0, fmt.Errorf("unknown output mode %q", s)
	}
}

type byteInput struct {
	r io.ByteReader
}

// NewByteInput reads one byte per InputCell instruction.
func NewByteInput(r io.Reader) InputChannel {
	if br, ok := r.(io.ByteReader); ok {
		return &byteInput{r: br}
	}
	return &byteInput{r: bufio.NewReader(r)}
}

func (in *byteInput) ReadCell() (uint64, error) {
	b, err := in.r.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint64(b), nil
}

type numberInput struct {
	s *bufio.Scanner
}

// NewNumberInput reads whitespace separated decimal integers. Negative values
// are accepted and stored in two's complement.
func NewNumberInput(r io.Reader) InputChannel {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &numberInput{s: s}
}

func (in *numberInput) ReadCell() (uint64, error) {
	if !in.s.Scan() {
		if err := in.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	word := in.s.Text()
	if v, err := strconv.ParseUint(word, 10, 64); err == nil {
		return v, nil
	}

	v, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", word, err)
	}
	return uint64(v), nil
}

type valueInput struct {
	values []uint64
}

// NewValueInput supplies the given values in order, then io.EOF.
func NewValueInput(values ...uint64) InputChannel {
	return &valueInput{values: append([]uint64(nil), values...)}
}

func (in *valueInput) ReadCell() (uint64, error) {
	if len(in.values) == 0 {
		return 0, io.EOF
	}
	v := in.values[0]
	in.values = in.values[1:]
	return v, nil
}

type charOutput struct {
	w     *bufio.Writer
	width tape.CellWidth
}

// NewCharOutput writes 8-bit cells as raw bytes and wider cells as the UTF-8
// encoding of the code point they hold.
func NewCharOutput(w io.Writer, width tape.CellWidth) OutputChannel {
	return &charOutput{w: bufio.NewWriter(w), width: width}
}

func (out *charOutput) WriteCell(v uint64) error {
	if out.width == tape.Width8 {
		return out.w.WriteByte(byte(v))
	}

	r := rune(0xFFFD)
	if v <= 0x10FFFF {
		r = rune(v)
	}
	_, err := out.w.WriteRune(r)
	return err
}

func (out *charOutput) Flush() error {
	return out.w.Flush()
}

type numberOutput struct {
	w      *bufio.Writer
	width  tape.CellWidth
	signed bool
	sep    string
	buf    []byte
}

// NewNumberOutput writes each cell as a decimal integer followed by sep. With
// signed set, cells are read as two's complement at the given width.
func NewNumberOutput(
	w io.Writer,
	width tape.CellWidth,
	signed bool,
	sep string,
) OutputChannel {
	return &numberOutput{
		w:      bufio.NewWriter(w),
		width:  width,
		signed: signed,
		sep:    sep,
	}
}

func (out *numberOutput) WriteCell(v uint64) error {
	if out.signed {
		out.buf = strconv.AppendInt(out.buf[:0], tape.SignExtend(v, out.width), 10)
	} else {
		out.buf = strconv.AppendUint(out.buf[:0], v, 10)
	}
	out.buf = append(out.buf, out.sep...)

	_, err := out.w.Write(out.buf)
	return err
}

func (out *numberOutput) Flush() error {
	return out.w.Flush()
}

// Collector is an OutputChannel that records every emitted value.
type Collector struct {
	values []uint64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// WriteCell records v.
func (c *Collector) WriteCell(v uint64) error {
	c.values = append(c.values, v)
	return nil
}

// Flush does nothing.
func (c *Collector) Flush() error {
	return nil
}

// Values returns a copy of the recorded values.
func (c *Collector) Values() []uint64 {
	return append([]uint64(nil), c.values...)
}

// Reset drops the recorded values.
func (c *Collector) Reset() {
	c.values = c.values[:0]
}
