// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ezrec/mr2a/emulator"
	"github.com/ezrec/mr2a/internal"
)

// loadImage reads a program image; .hex and .txt files are hex text, all
// others raw binary.
func loadImage(path string) (image emulator.Image, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".txt":
		image, err = emulator.ParseImage(inf)
	default:
		image, err = emulator.ReadImage(inf)
	}

	return
}

// parseInputs parses a comma separated list of input register values.
func parseInputs(text string) (inputs [4]uint8, err error) {
	if len(text) == 0 {
		return
	}

	words := strings.Split(text, ",")
	if len(words) > len(inputs) {
		err = fmt.Errorf("%v: at most %d input values", text, len(inputs))
		return
	}

	for n, word := range words {
		var value uint64
		value, err = strconv.ParseUint(strings.TrimSpace(word), 0, 8)
		if err != nil {
			return
		}
		inputs[n] = uint8(value)
	}

	return
}

func main() {
	var image_path string
	var scenario_path string
	var cycles uint64
	var micro bool
	var frequency float64
	var inputs string
	var interactive bool
	var defines bool
	var verbose bool

	flag.StringVar(&image_path, "i", "", "Program image (.hex for hex text, otherwise binary)")
	flag.StringVar(&scenario_path, "s", "", ".star scenario to run and verify")
	flag.Uint64Var(&cycles, "n", emulator.DEFAULT_CYCLES, "Cycle budget")
	flag.BoolVar(&micro, "m", false, "Micro step the clock")
	flag.Float64Var(&frequency, "f", 0, "Clock frequency in Hz, 0 for unthrottled")
	flag.StringVar(&inputs, "in", "", "Input register values, comma separated")
	flag.BoolVar(&interactive, "t", false, "Interactive console")
	flag.BoolVar(&defines, "d", false, "Print the machine defines, and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	config := emulator.DefaultConfig()
	config.Verbose = verbose
	config.Frequency = frequency
	if micro {
		config.Step = emulator.STEP_MICRO
	}

	var err error
	config.Inputs, err = parseInputs(inputs)
	if err != nil {
		log.Fatalf("-in: %v", err)
	}

	if defines {
		m := emulator.NewMachine(config)
		for key, value := range internal.IterSeq2Sorted(m.Defines()) {
			fmt.Printf("%v=%v\n", key, value)
		}
		return
	}

	if len(scenario_path) != 0 {
		runScenario(scenario_path, verbose)
		return
	}

	if len(image_path) == 0 {
		log.Fatalf("%v: One of -i or -s is required", os.Args[0])
	}

	image, err := loadImage(image_path)
	if err != nil {
		log.Fatalf("%v: %v", image_path, err)
	}

	m := emulator.NewMachine(config)
	err = m.Load(image)
	if err != nil {
		log.Fatalf("%v: %v", image_path, err)
	}

	if interactive {
		err = runConsole(m, cycles)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	runner := emulator.NewRunner(m, cycles)
	runner.Verbose = verbose
	state := runner.Run()

	fmt.Print(m.String())
	if state == emulator.STATE_ERROR_STOPPED {
		log.Fatalf("%v: %v", image_path, m.Fault())
	}
}

// runScenario runs and verifies a scenario script.
func runScenario(path string, verbose bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	sc, err := emulator.LoadScenario(path, src)
	if err != nil {
		log.Fatal(err)
	}
	sc.Config.Verbose = sc.Config.Verbose || verbose

	m, err := sc.Run()
	if m != nil {
		fmt.Print(m.String())
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
}
