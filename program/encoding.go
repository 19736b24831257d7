package program

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// yamlProgram is the on-disk YAML layout of a resolved program.
type yamlProgram struct {
	ISA          string            `yaml:"isa"`
	Source       string            `yaml:"source"`
	Instructions []yamlInstruction `yaml:"instructions"`
}

type yamlInstruction struct {
	Op     string   `yaml:"op"`
	Target *int     `yaml:"target,omitempty"`
	Pos    Position `yaml:"pos"`
}

// MarshalYAML implements yaml.Marshaler.
func (p *Program) MarshalYAML() (interface{}, error) {
	yp := yamlProgram{
		ISA:          DefaultISA.Name(),
		Source:       p.String(),
		Instructions: make([]yamlInstruction, 0, len(p.Insts)),
	}

	for _, inst := range p.Insts {
		yi := yamlInstruction{Op: inst.Opcode.String(), Pos: inst.Pos}
		if inst.Opcode.IsJump() {
			target := inst.Target
			yi.Target = &target
		}
		yp.Instructions = append(yp.Instructions, yi)
	}

	return yp, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The decoded program is
// validated.
func (p *Program) UnmarshalYAML(value *yaml.Node) error {
	var yp yamlProgram
	if err := value.Decode(&yp); err != nil {
		return err
	}

	if yp.ISA != "" && yp.ISA != DefaultISA.Name() {
		return fmt.Errorf("%w: unsupported isa %q", ErrInvalidProgram, yp.ISA)
	}

	insts := make([]Instruction, 0, len(yp.Instructions))
	for i, yi := range yp.Instructions {
		runes := []rune(yi.Op)
		if len(runes) != 1 {
			return fmt.Errorf("%w: bad op %q at index %d", ErrInvalidProgram, yi.Op, i)
		}
		op, ok := DefaultISA.Lookup(runes[0])
		if !ok {
			return fmt.Errorf("%w: bad op %q at index %d", ErrInvalidProgram, yi.Op, i)
		}

		inst := Instruction{Opcode: op, Pos: yi.Pos}
		if yi.Target != nil {
			inst.Target = *yi.Target
		}
		insts = append(insts, inst)
	}

	decoded := Program{Insts: insts}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*p = decoded
	return nil
}

// ParseYAML decodes a resolved program from YAML.
func ParseYAML(data []byte) (*Program, error) {
	p := &Program{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse program yaml: %w", err)
	}
	return p, nil
}

// LoadProgramFileFromYAML reads a resolved program from a YAML file.
func LoadProgramFileFromYAML(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	p, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// SaveProgramFileToYAML writes a resolved program to a YAML file.
func SaveProgramFileToYAML(path string, p *Program) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode program yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}

	return nil
}

// cborProgram is the binary layout of a resolved program.
type cborProgram struct {
	ISA   string            `cbor:"1,keyasint"`
	Insts []cborInstruction `cbor:"2,keyasint"`
}

type cborInstruction struct {
	Op     uint8    `cbor:"1,keyasint"`
	Target int      `cbor:"2,keyasint,omitempty"`
	Pos    Position `cbor:"3,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("program: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalCBOR implements cbor.Marshaler using canonical encoding, so equal
// programs encode to equal bytes.
func (p *Program) MarshalCBOR() ([]byte, error) {
	cp := cborProgram{
		ISA:   DefaultISA.Name(),
		Insts: make([]cborInstruction, 0, len(p.Insts)),
	}
	for _, inst := range p.Insts {
		cp.Insts = append(cp.Insts, cborInstruction{
			Op:     uint8(inst.Opcode),
			Target: inst.Target,
			Pos:    inst.Pos,
		})
	}

	return cborEncMode.Marshal(cp)
}

// UnmarshalCBOR implements cbor.Unmarshaler. The decoded program is
// validated.
func (p *Program) UnmarshalCBOR(data []byte) error {
	var cp cborProgram
	if err := cbor.Unmarshal(data, &cp); err != nil {
		return fmt.Errorf("program: unmarshal: %w", err)
	}

	if cp.ISA != DefaultISA.Name() {
		return fmt.Errorf("%w: unsupported isa %q", ErrInvalidProgram, cp.ISA)
	}

	insts := make([]Instruction, 0, len(cp.Insts))
	for _, ci := range cp.Insts {
		insts = append(insts, Instruction{
			Opcode: Opcode(ci.Op),
			Target: ci.Target,
			Pos:    ci.Pos,
		})
	}

	decoded := Program{Insts: insts}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*p = decoded
	return nil
}

// UnmarshalProgram decodes a resolved program from CBOR bytes.
func UnmarshalProgram(data []byte) (*Program, error) {
	p := &Program{}
	if err := p.UnmarshalCBOR(data); err != nil {
		return nil, err
	}
	return p, nil
}
