// Package tape defines the memory tape that tapevm programs operate on.
package tape

import "fmt"

// CellWidth is the number of bits in one cell. Cell arithmetic wraps modulo
// 2^CellWidth.
type CellWidth uint8

// Supported cell widths.
const (
	Width8  CellWidth = 8
	Width16 CellWidth = 16
	Width32 CellWidth = 32
	Width64 CellWidth = 64
)

// DefaultSize is the number of cells in a default tape.
const DefaultSize = 30000

// Valid reports whether w is one of the supported widths.
func (w CellWidth) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	default:
		return false
	}
}

// Mask returns the largest value representable in a cell of this width.
func (w CellWidth) Mask() uint64 {
	if w == Width64 {
		return ^uint64(0)
	}
	return uint64(1)<<w - 1
}

func (w CellWidth) String() string {
	return fmt.Sprintf("%d-bit", uint8(w))
}

// ParseWidth converts a bit count into a CellWidth.
func ParseWidth(bits int) (CellWidth, error) {
	w := CellWidth(bits)
	if bits < 0 || bits > 64 || !w.Valid() {
		return 0, fmt.Errorf("unsupported cell width %d", bits)
	}
	return w, nil
}

// Tape is an ordered sequence of cells that grows to the right one cell at a
// time and never shrinks.
type Tape struct {
	cells []uint64
	width CellWidth
}

// New creates a zero-filled tape of the given size.
func New(size int, width CellWidth) *Tape {
	mustBeValid(width)
	if size < 1 {
		size = 1
	}

	return &Tape{
		cells: make([]uint64, size),
		width: width,
	}
}

// FromValues creates a tape holding a copy of values, padded with zero cells
// up to minSize. Values wider than the cell are truncated to the cell width.
func FromValues(values []uint64, minSize int, width CellWidth) *Tape {
	mustBeValid(width)

	size := len(values)
	if minSize > size {
		size = minSize
	}
	if size < 1 {
		size = 1
	}

	t := &Tape{
		cells: make([]uint64, size),
		width: width,
	}
	for i, v := range values {
		t.cells[i] = v & width.Mask()
	}

	return t
}

func mustBeValid(width CellWidth) {
	if !width.Valid() {
		panic(fmt.Sprintf("tape: unsupported cell width %d", uint8(width)))
	}
}

// Len returns the current number of cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Width returns the cell width of the tape.
func (t *Tape) Width() CellWidth {
	return t.width
}

// Get returns the value of cell i.
func (t *Tape) Get(i int) uint64 {
	return t.cells[i]
}

// Set stores v, truncated to the cell width, into cell i.
func (t *Tape) Set(i int, v uint64) {
	t.cells[i] = v & t.width.Mask()
}

// Inc increments cell i, wrapping from the maximum value to zero.
func (t *Tape) Inc(i int) {
	t.cells[i] = (t.cells[i] + 1) & t.width.Mask()
}

// Dec decrements cell i, wrapping from zero to the maximum value.
func (t *Tape) Dec(i int) {
	t.cells[i] = (t.cells[i] - 1) & t.width.Mask()
}

// Grow appends exactly one zero cell.
func (t *Tape) Grow() {
	t.cells = append(t.cells, 0)
}

// Signed returns cell i interpreted as a two's complement number of the
// tape's width.
func (t *Tape) Signed(i int) int64 {
	return SignExtend(t.cells[i], t.width)
}

// Values returns a copy of all cells.
func (t *Tape) Values() []uint64 {
	out := make([]uint64, len(t.cells))
	copy(out, t.cells)
	return out
}

// Window returns a copy of the cells in [from, to), clipped to the tape.
func (t *Tape) Window(from, to int) []uint64 {
	if from < 0 {
		from = 0
	}
	if to > len(t.cells) {
		to = len(t.cells)
	}
	if from >= to {
		return nil
	}

	out := make([]uint64, to-from)
	copy(out, t.cells[from:to])
	return out
}

// Clone returns an independent copy of the tape.
func (t *Tape) Clone() *Tape {
	return &Tape{
		cells: t.Values(),
		width: t.width,
	}
}

// SignExtend interprets the low width bits of v as a two's complement number.
func SignExtend(v uint64, width CellWidth) int64 {
	if width == Width64 {
		return int64(v)
	}
	shift := 64 - uint(width)
	return int64(v<<shift) >> shift
}
