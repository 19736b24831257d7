package main

import (
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/tape"
)

// Doubles 2 into the neighbor cell and prints it as a number.
const doubleKernel = "++[>++<-]>."

func main() {
	p, err := program.Translate(doubleKernel)
	if err != nil {
		log.Fatal(err)
	}

	e := core.MakeBuilder().
		WithCellWidth(tape.Width64).
		WithOutputMode(core.OutputNumber).
		WithSigned(true).
		WithWriter(os.Stdout).
		Build()

	if err := e.Run(p); err != nil {
		log.Fatal(err)
	}

	atexit.Exit(0)
}
