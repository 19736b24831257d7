package main

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapevm/api"
	"github.com/sarchlab/tapevm/program"
	valgen "github.com/sarchlab/tapevm/util"
)

//go:embed passthrough.bf
var passThroughKernel string

func passThrough(driver api.Driver) {
	length := 8
	src := valgen.Terminated(valgen.MakeIncreasingGen(0), length)

	driver.FeedIn(src)
	driver.MapProgram(program.MustTranslate(passThroughKernel))

	if err := driver.Run(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(src[:length])
	fmt.Println(driver.Collect())
	fmt.Printf("%d cycles\n", driver.Cycles())
}

func main() {
	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMaxCycles(10000).
		Build("Driver")

	passThrough(driver)

	atexit.Exit(0)
}
