package program

import (
	"bufio"
	"fmt"
	"io"
)

// Translate converts source text into a resolved instruction sequence in one
// pass. Characters outside the instruction set are ignored. The only errors
// are unmatched brackets, reported as a *BracketError.
func Translate(src string) (*Program, error) {
	t := newTranslator(len(src))

	for _, c := range src {
		if err := t.feed(c); err != nil {
			return nil, err
		}
	}

	return t.finish()
}

// TranslateReader translates source text read from r.
func TranslateReader(r io.Reader) (*Program, error) {
	br := bufio.NewReader(r)
	t := newTranslator(0)

	for {
		c, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}

		if err := t.feed(c); err != nil {
			return nil, err
		}
	}

	return t.finish()
}

// MustTranslate is like Translate but panics on error. It is meant for
// programs embedded in the binary.
func MustTranslate(src string) *Program {
	p, err := Translate(src)
	if err != nil {
		panic(err)
	}
	return p
}

type translator struct {
	isa   *ISA
	insts []Instruction
	open  []int
	pos   Position
}

func newTranslator(sizeHint int) *translator {
	return &translator{
		isa:   DefaultISA,
		insts: make([]Instruction, 0, sizeHint),
		pos:   Position{Line: 1, Column: 1},
	}
}

func (t *translator) feed(c rune) error {
	pos := t.pos
	t.advance(c)

	op, ok := t.isa.Lookup(c)
	if !ok {
		return nil
	}

	switch op {
	case LoopStart:
		// The target is patched once the matching LoopEnd is appended.
		t.open = append(t.open, len(t.insts))
		t.insts = append(t.insts, Instruction{Opcode: LoopStart, Pos: pos})
	case LoopEnd:
		if len(t.open) == 0 {
			return &BracketError{Kind: UnmatchedClose, Positions: []Position{pos}}
		}
		start := t.open[len(t.open)-1]
		t.open = t.open[:len(t.open)-1]

		t.insts = append(t.insts, Instruction{Opcode: LoopEnd, Target: start, Pos: pos})
		t.insts[start].Target = len(t.insts) - 1
	default:
		t.insts = append(t.insts, Instruction{Opcode: op, Pos: pos})
	}

	return nil
}

func (t *translator) advance(c rune) {
	t.pos.Offset++
	if c == '\n' {
		t.pos.Line++
		t.pos.Column = 1
		return
	}
	t.pos.Column++
}

func (t *translator) finish() (*Program, error) {
	if len(t.open) > 0 {
		positions := make([]Position, 0, len(t.open))
		for _, idx := range t.open {
			positions = append(positions, t.insts[idx].Pos)
		}
		return nil, &BracketError{Kind: UnmatchedOpen, Positions: positions}
	}

	return &Program{Insts: t.insts}, nil
}
