package main

import (
	"log"
	"os"
	"strings"

	"github.com/sarchlab/tapevm/codegen"
	"github.com/sarchlab/tapevm/codegen/internal/kernels"
	"github.com/sarchlab/tapevm/program"
)

// main regenerates one file per kernel in the current directory.
func main() {
	for _, k := range kernels.Kernels {
		p, err := program.Translate(k.Source)
		if err != nil {
			log.Fatalf("%s: %v", k.Name, err)
		}

		f, err := codegen.NewFunctionBuilder().
			WithName(k.Name).
			WithPackage("kernels").
			WithCellType(k.Width).
			Build()
		if err != nil {
			log.Fatalf("%s: %v", k.Name, err)
		}

		src, err := f.Generate(p)
		if err != nil {
			log.Fatalf("%s: %v", k.Name, err)
		}

		name := "zz_generated_" + strings.ToLower(k.Name) + ".go"
		if err := os.WriteFile(name, []byte(src), 0o644); err != nil {
			log.Fatal(err)
		}
	}
}
