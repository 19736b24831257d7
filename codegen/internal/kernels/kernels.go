// Package kernels holds Go functions generated by codegen from small
// programs. Each generated function must behave like core.Engine running the
// same program.
package kernels

//go:generate go run ./gen

import "github.com/sarchlab/tapevm/tape"

// Kernel describes one generated function.
type Kernel struct {
	Name   string
	Source string
	Width  tape.CellWidth
}

// Kernels lists every function in this package, in generation order.
var Kernels = []Kernel{
	{Name: "Double", Source: "++[>++<-]>.", Width: tape.Width8},
	{Name: "Echo", Source: ",[.,]", Width: tape.Width8},
	{Name: "Retreat", Source: "+<", Width: tape.Width8},
	{Name: "Wrap", Source: "-.+.", Width: tape.Width8},
	{Name: "Nested", Source: "++[>++[>+<-]<-]>>.", Width: tape.Width8},
	{Name: "Skip", Source: "[>+<-]+.", Width: tape.Width8},
	{Name: "WideWrap", Source: "-.", Width: tape.Width16},
	{Name: "WideEcho", Source: ",[.,]", Width: tape.Width16},
}
