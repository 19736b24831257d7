package main

import (
	"context"
	_ "embed"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapevm/config"
	"github.com/sarchlab/tapevm/program"
)

//go:embed hello.bf
var helloKernel string

func main() {
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		log.Fatal(err)
	}

	b, err := cfg.Builder()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	e := b.WithReader(os.Stdin).WithWriter(os.Stdout).Build()
	if err := e.RunContext(ctx, program.MustTranslate(helloKernel)); err != nil {
		log.Fatal(err)
	}

	atexit.Exit(0)
}
