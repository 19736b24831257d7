package main

import (
	"fmt"
	"log"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapevm/codegen"
	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/tape"
)

const doubleKernel = "++[>++<-]>."

func main() {
	f, err := codegen.NewFunctionBuilder().
		WithName("Double").
		WithPackage("kernels").
		WithCellType(tape.Width8).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	src, err := f.Generate(program.MustTranslate(doubleKernel))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(src)

	atexit.Exit(0)
}
