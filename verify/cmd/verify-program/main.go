package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sarchlab/tapevm/config"
	"github.com/sarchlab/tapevm/program"
	"github.com/sarchlab/tapevm/verify"
)

//go:embed double.bf
var defaultProgram string

const defaultMaxSteps = 100000

// loadProgram reads a program by file extension: .yaml and .yml hold a
// resolved program, .cbor an encoded one, anything else is source text.
func loadProgram(cache *program.Cache, path string) (*program.Program, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return program.LoadProgramFileFromYAML(path)
	case ".cbor":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return program.UnmarshalProgram(data)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return cache.Get(string(data))
	}
}

// main runs lint and a bounded run on the programs named on the command line,
// or on TAPEVM_PROGRAM, or on a built-in program.
func main() {
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	machine, err := cfg.Builder()
	if err != nil {
		log.Fatalf("Bad machine config: %v", err)
	}

	maxSteps := cfg.Run.MaxSteps
	if maxSteps == 0 {
		maxSteps = defaultMaxSteps
	}

	paths := os.Args[1:]
	if len(paths) == 0 {
		if env := os.Getenv("TAPEVM_PROGRAM"); env != "" {
			paths = []string{env}
		}
	}

	cache := program.NewCache()
	programs := make(map[string]*program.Program)
	var order []string

	if len(paths) == 0 {
		p, err := cache.Get(defaultProgram)
		if err != nil {
			log.Fatalf("Failed to translate built-in program: %v", err)
		}
		programs["built-in"] = p
		order = append(order, "built-in")
	}

	for _, path := range paths {
		p, err := loadProgram(cache, path)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		programs[path] = p
		order = append(order, path)
	}

	failed := 0
	for _, name := range order {
		fmt.Printf("== %s ==\n", name)

		report := verify.GenerateReport(programs[name], machine, maxSteps)
		report.WriteReport(os.Stdout)

		if out := os.Getenv("TAPEVM_SAVE_YAML"); out != "" && len(order) == 1 {
			if err := program.SaveProgramFileToYAML(out, programs[name]); err != nil {
				log.Fatalf("Failed to save %s: %v", out, err)
			}
		}

		if !report.Passed() {
			failed++
		}
	}

	if failed > 0 {
		log.Fatalf("%d of %d programs failed verification", failed, len(order))
	}
}
