// Package codegen generates Go source from a resolved program. The
// generated function behaves like core.Engine running the same program with
// character output.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/tape"
)

// ErrSignature is returned by Build for a signature the generator cannot
// produce.
var ErrSignature = errors.New("unsupported signature")

// ValueKind is the kind of a parameter or result of a generated function.
type ValueKind int

// Value kinds.
const (
	KindTape   ValueKind = iota // []T, T being the cell type
	KindCursor                  // int
	KindInput                   // io.ByteReader, may be nil
	KindOutput                  // io.Writer, may be nil
	KindError                   // error
)

func (k ValueKind) String() string {
	switch k {
	case KindTape:
		return "tape"
	case KindCursor:
		return "cursor"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

var (
	contractParams  = []ValueKind{KindTape, KindCursor, KindInput, KindOutput}
	contractReturns = []ValueKind{KindTape, KindCursor, KindError}
)

// FunctionBuilder describes the signature of a generated function.
type FunctionBuilder struct {
	name    string
	pkg     string
	width   tape.CellWidth
	params  []ValueKind
	returns []ValueKind
}

// NewFunctionBuilder returns a builder for a function Run in package main
// operating on 8-bit cells.
func NewFunctionBuilder() FunctionBuilder {
	return FunctionBuilder{
		name:  "Run",
		pkg:   "main",
		width: tape.Width8,
	}
}

// WithName sets the function name.
func (b FunctionBuilder) WithName(name string) FunctionBuilder {
	b.name = name
	return b
}

// WithPackage sets the package of the generated file.
func (b FunctionBuilder) WithPackage(pkg string) FunctionBuilder {
	b.pkg = pkg
	return b
}

// WithCellType sets the cell width, which selects the unsigned Go type of a
// cell.
func (b FunctionBuilder) WithCellType(width tape.CellWidth) FunctionBuilder {
	if !width.Valid() {
		panic(fmt.Sprintf("invalid cell width %d", width))
	}
	b.width = width
	return b
}

// WithParam appends a parameter. Parameters default to (tape, cursor,
// input, output) when none are given.
func (b FunctionBuilder) WithParam(kind ValueKind) FunctionBuilder {
	b.params = append(append([]ValueKind(nil), b.params...), kind)
	return b
}

// WithReturn appends a result. Results default to (tape, cursor, error)
// when none are given.
func (b FunctionBuilder) WithReturn(kind ValueKind) FunctionBuilder {
	b.returns = append(append([]ValueKind(nil), b.returns...), kind)
	return b
}

// Build checks the description and creates a Function.
func (b FunctionBuilder) Build() (Function, error) {
	if !token.IsIdentifier(b.name) {
		return Function{}, fmt.Errorf("%w: bad function name %q", ErrSignature, b.name)
	}
	if !token.IsIdentifier(b.pkg) {
		return Function{}, fmt.Errorf("%w: bad package name %q", ErrSignature, b.pkg)
	}
	if err := matchContract("parameters", b.params, contractParams); err != nil {
		return Function{}, err
	}
	if err := matchContract("results", b.returns, contractReturns); err != nil {
		return Function{}, err
	}

	return Function{
		Name:    b.name,
		Package: b.pkg,
		Width:   b.width,
	}, nil
}

func matchContract(what string, got, want []ValueKind) error {
	if len(got) == 0 {
		return nil
	}

	if len(got) != len(want) {
		return fmt.Errorf("%w: %s %v, want %v", ErrSignature, what, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("%w: %s %v, want %v", ErrSignature, what, got, want)
		}
	}

	return nil
}

// Function is a checked description of a generated function.
type Function struct {
	Name    string
	Package string
	Width   tape.CellWidth
}

func (f Function) cellType() *jen.Statement {
	switch f.Width {
	case tape.Width16:
		return jen.Uint16()
	case tape.Width32:
		return jen.Uint32()
	case tape.Width64:
		return jen.Uint64()
	default:
		return jen.Uint8()
	}
}

func (f Function) params() []jen.Code {
	return []jen.Code{
		jen.Id("tape").Index().Add(f.cellType()),
		jen.Id("cursor").Int(),
		jen.Id("in").Qual("io", "ByteReader"),
		jen.Id("out").Qual("io", "Writer"),
	}
}

func (f Function) results() []jen.Code {
	return []jen.Code{
		jen.Index().Add(f.cellType()),
		jen.Int(),
		jen.Error(),
	}
}

// Signature renders the Go signature of the function.
func (f Function) Signature() string {
	return jen.Func().Id(f.Name).Params(f.params()...).Params(f.results()...).GoString()
}

func (f Function) errName() string {
	r, size := utf8.DecodeRuneInString(f.Name)
	name := string(unicode.ToUpper(r)) + f.Name[size:] + "Underflow"
	if token.IsExported(f.Name) {
		return "Err" + name
	}
	return "err" + name
}

func (f Function) writerName() string {
	r, size := utf8.DecodeRuneInString(f.Name)
	return "write" + string(unicode.ToUpper(r)) + f.Name[size:]
}

// Generate renders a Go source file holding the function for p.
func (f Function) Generate(p *program.Program) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	file := jen.NewFile(f.Package)
	file.HeaderComment("Code generated by tapevm codegen. DO NOT EDIT.")

	file.Commentf("%s is returned when the cursor moves left of cell 0.", f.errName())
	file.Var().Id(f.errName()).Op("=").
		Qual("errors", "New").Call(jen.Lit("pointer underflow"))
	file.Line()

	body := []jen.Code{
		jen.If(jen.Len(jen.Id("tape")).Op("==").Lit(0)).Block(
			jen.Id("tape").Op("=").Append(jen.Id("tape"), jen.Lit(0)),
		),
	}
	body = append(body, f.block(p, 0, p.Len())...)
	body = append(body, jen.Return(jen.Id("tape"), jen.Id("cursor"), jen.Nil()))

	file.Commentf("%s runs %q.", f.Name, summarize(p.String()))
	file.Func().Id(f.Name).
		Params(f.params()...).
		Params(f.results()...).
		Block(body...)
	file.Line()

	f.writeHelper(file)

	var buf bytes.Buffer
	if err := file.Render(&buf); err != nil {
		return "", fmt.Errorf("render %s: %w", f.Name, err)
	}

	return buf.String(), nil
}

func summarize(src string) string {
	const limit = 60
	if len(src) <= limit {
		return src
	}
	return src[:limit] + "..."
}

// block emits the statements for instructions [from, to). Loops become for
// statements over their resolved bodies.
func (f Function) block(p *program.Program, from, to int) []jen.Code {
	var stmts []jen.Code
	cell := func() *jen.Statement {
		return jen.Id("tape").Index(jen.Id("cursor"))
	}
	fail := func(err jen.Code) *jen.Statement {
		return jen.Return(jen.Id("tape"), jen.Id("cursor"), err)
	}

	for pc := from; pc < to; pc++ {
		inst := p.At(pc)

		switch inst.Opcode {
		case program.MovePointerForward:
			stmts = append(stmts,
				jen.Id("cursor").Op("++"),
				jen.If(jen.Id("cursor").Op(">=").Len(jen.Id("tape"))).Block(
					jen.Id("tape").Op("=").Append(jen.Id("tape"), jen.Lit(0)),
				),
			)
		case program.MovePointerBackward:
			stmts = append(stmts,
				jen.If(jen.Id("cursor").Op("==").Lit(0)).Block(
					fail(jen.Id(f.errName())),
				),
				jen.Id("cursor").Op("--"),
			)
		case program.IncrementCell:
			stmts = append(stmts, cell().Op("++"))
		case program.DecrementCell:
			stmts = append(stmts, cell().Op("--"))
		case program.OutputCell:
			stmts = append(stmts,
				jen.If(
					jen.Err().Op(":=").Id(f.writerName()).Call(
						jen.Id("out"), jen.Uint64().Call(cell())),
					jen.Err().Op("!=").Nil(),
				).Block(fail(jen.Err())),
			)
		case program.InputCell:
			stmts = append(stmts,
				jen.If(jen.Id("in").Op("!=").Nil()).Block(
					jen.List(jen.Id("b"), jen.Err()).Op(":=").
						Id("in").Dot("ReadByte").Call(),
					jen.If(
						jen.Err().Op("!=").Nil().Op("&&").
							Err().Op("!=").Qual("io", "EOF"),
					).Block(fail(jen.Err())),
					jen.If(jen.Err().Op("==").Nil()).Block(
						cell().Op("=").Add(f.cellType()).Call(jen.Id("b")),
					),
				),
			)
		case program.LoopStart:
			stmts = append(stmts,
				jen.For(cell().Op("!=").Lit(0)).Block(
					f.block(p, pc+1, inst.Target)...,
				),
			)
			pc = inst.Target
		}
	}

	return stmts
}

func (f Function) writeHelper(file *jen.File) {
	var body []jen.Code
	if f.Width == tape.Width8 {
		body = []jen.Code{
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("out").Dot("Write").Call(
				jen.Index().Byte().Values(jen.Byte().Call(jen.Id("v")))),
			jen.Return(jen.Err()),
		}
	} else {
		body = []jen.Code{
			jen.Id("r").Op(":=").Qual("unicode/utf8", "RuneError"),
			jen.If(jen.Id("v").Op("<=").Qual("unicode/utf8", "MaxRune")).Block(
				jen.Id("r").Op("=").Rune().Call(jen.Id("v")),
			),
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("out").Dot("Write").Call(
				jen.Qual("unicode/utf8", "AppendRune").Call(jen.Nil(), jen.Id("r"))),
			jen.Return(jen.Err()),
		}
	}

	body = append([]jen.Code{
		jen.If(jen.Id("out").Op("==").Nil()).Block(jen.Return(jen.Nil())),
	}, body...)

	file.Func().Id(f.writerName()).
		Params(jen.Id("out").Qual("io", "Writer"), jen.Id("v").Uint64()).
		Error().
		Block(body...)
}

// Generate renders p with the default function description.
func Generate(p *program.Program) (string, error) {
	f, err := NewFunctionBuilder().Build()
	if err != nil {
		return "", err
	}
	return f.Generate(p)
}
