package program

import (
	"fmt"
	"strings"
)

// Position locates a character in the source text.
type Position struct {
	Offset int `yaml:"offset" cbor:"1,keyasint"` // rune offset, 0-based
	Line   int `yaml:"line" cbor:"2,keyasint"`   // 1-based
	Column int `yaml:"column" cbor:"3,keyasint"` // 1-based, in runes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d (offset %d)", p.Line, p.Column, p.Offset)
}

// Instruction is one resolved operation.
type Instruction struct {
	Opcode Opcode
	// Target is the index of the matching LoopEnd for a LoopStart, and of the
	// matching LoopStart for a LoopEnd. Unused for other opcodes.
	Target int
	Pos    Position
}

func (i Instruction) String() string {
	if i.Opcode.IsJump() {
		return fmt.Sprintf("%s %d", i.Opcode.Name(), i.Target)
	}
	return i.Opcode.Name()
}

// Program is a resolved instruction sequence. It is built once by Translate
// and must not be modified afterwards.
type Program struct {
	Insts []Instruction
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Insts)
}

// At returns instruction i.
func (p *Program) At(i int) Instruction {
	return p.Insts[i]
}

// String renders the canonical source of the program, containing only the
// significant characters.
func (p *Program) String() string {
	var sb strings.Builder
	sb.Grow(len(p.Insts))
	for _, inst := range p.Insts {
		sb.WriteString(inst.Opcode.String())
	}
	return sb.String()
}

// Loops returns the (start, end) index pairs of every loop, ordered by start.
func (p *Program) Loops() [][2]int {
	var loops [][2]int
	for i, inst := range p.Insts {
		if inst.Opcode == LoopStart {
			loops = append(loops, [2]int{i, inst.Target})
		}
	}
	return loops
}

// Validate checks that every opcode is known and that every LoopStart and
// LoopEnd forms a unique pair whose targets point at each other. Programs
// produced by Translate always validate; decoded programs may not.
func (p *Program) Validate() error {
	var open []int

	for i, inst := range p.Insts {
		if !inst.Opcode.Valid() {
			return fmt.Errorf("%w: unknown opcode %d at index %d",
				ErrInvalidProgram, byte(inst.Opcode), i)
		}

		switch inst.Opcode {
		case LoopStart:
			open = append(open, i)
		case LoopEnd:
			if len(open) == 0 {
				return fmt.Errorf("%w: loop end at index %d has no start",
					ErrInvalidProgram, i)
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]

			if inst.Target != start || p.Insts[start].Target != i {
				return fmt.Errorf("%w: loop %d..%d has targets %d and %d",
					ErrInvalidProgram, start, i, p.Insts[start].Target, inst.Target)
			}
		}
	}

	if len(open) > 0 {
		return fmt.Errorf("%w: loop start at index %d has no end",
			ErrInvalidProgram, open[len(open)-1])
	}

	return nil
}
