package program

import "fmt"

// Opcode identifies one of the eight primitive operations.
type Opcode byte

// The instruction set. The zero value is not a valid opcode.
const (
	MovePointerForward Opcode = iota + 1
	MovePointerBackward
	IncrementCell
	DecrementCell
	OutputCell
	InputCell
	LoopStart
	LoopEnd
)

// ISA describes an instruction set: which source characters are significant
// and the opcode each one maps to.
type ISA struct {
	name       string
	charToOp   map[rune]Opcode
	opToChar   map[Opcode]rune
	opToName   map[Opcode]string
	numOpcodes int
}

// NewISA creates an empty instruction set.
func NewISA(name string) *ISA {
	return &ISA{
		name:     name,
		charToOp: make(map[rune]Opcode),
		opToChar: make(map[Opcode]rune),
		opToName: make(map[Opcode]string),
	}
}

func (isa *ISA) registerNewInst(c rune, op Opcode, name string) {
	if _, dup := isa.charToOp[c]; dup {
		panic(fmt.Sprintf("character %q registered twice in %s", c, isa.name))
	}

	isa.charToOp[c] = op
	isa.opToChar[op] = c
	isa.opToName[op] = name
	isa.numOpcodes++
}

// Name returns the name of the instruction set.
func (isa *ISA) Name() string {
	return isa.name
}

// Lookup returns the opcode of a source character. Characters that are not
// part of the instruction set report false and are treated as comments.
func (isa *ISA) Lookup(c rune) (Opcode, bool) {
	op, ok := isa.charToOp[c]
	return op, ok
}

// NumOpcodes returns the number of registered instructions.
func (isa *ISA) NumOpcodes() int {
	return isa.numOpcodes
}

// DefaultISA is the eight-instruction set used by Translate.
var DefaultISA = func() *ISA {
	isa := NewISA("tapevm")
	isa.registerNewInst('>', MovePointerForward, "MovePointerForward")
	isa.registerNewInst('<', MovePointerBackward, "MovePointerBackward")
	isa.registerNewInst('+', IncrementCell, "IncrementCell")
	isa.registerNewInst('-', DecrementCell, "DecrementCell")
	isa.registerNewInst('.', OutputCell, "OutputCell")
	isa.registerNewInst(',', InputCell, "InputCell")
	isa.registerNewInst('[', LoopStart, "LoopStart")
	isa.registerNewInst(']', LoopEnd, "LoopEnd")
	return isa
}()

// String returns the source character of the opcode.
func (op Opcode) String() string {
	if c, ok := DefaultISA.opToChar[op]; ok {
		return string(c)
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

// Name returns the long name of the opcode.
func (op Opcode) Name() string {
	if n, ok := DefaultISA.opToName[op]; ok {
		return n
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := DefaultISA.opToChar[op]
	return ok
}

// IsJump reports whether op carries a loop target.
func (op Opcode) IsJump() bool {
	return op == LoopStart || op == LoopEnd
}
