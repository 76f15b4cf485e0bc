//go:build !js

package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/aaj2005/chip8-emulator/pkg/chip8"
)

func main() {
	cycles := flag.Int("cycles", 10000, "number of instructions to execute")
	clock := flag.Int("clock", 700, "instructions per second (sets the timer cadence)")
	trace := flag.Bool("trace", false, "print each executed instruction")
	screenshot := flag.String("screenshot", "", "write the final display to a PNG file")
	seed := flag.Int64("seed", 0, "fixed seed for the random opcode (0 = time-based)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: chip8-emulator [flags] <rom>")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *cycles, *clock, *trace, *screenshot, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "run failed for %q: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

func run(romPath string, cycles, clock int, trace bool, screenshot string, seed int64) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}

	vm, err := chip8.NewMachine(rom)
	if err != nil {
		return err
	}
	if seed != 0 {
		vm.SetRandom(rand.New(rand.NewSource(seed)))
	}

	// Timers tick at 60 Hz of emulated time, once per frame's worth of
	// instructions.
	stepsPerFrame := clock / 60
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	for i := 0; i < cycles && vm.State == chip8.Running; i++ {
		pc := vm.PC
		if err := vm.Step(); err != nil {
			return err
		}
		if trace {
			fmt.Printf("0x%04X  %s\n", pc, chip8.Disassemble(vm.Inst))
		}
		if (i+1)%stepsPerFrame == 0 {
			vm.TickTimers()
		}
	}

	fmt.Printf(
		"run complete (%s): state=%s PC=0x%04X I=0x%04X SP=%d DT=%d ST=%d V=%02X\n",
		romPath,
		vm.State,
		vm.PC,
		vm.I,
		vm.SP,
		vm.DelayTimer,
		vm.SoundTimer,
		vm.V,
	)

	if screenshot != "" {
		if err := vm.SaveScreenshot(screenshot); err != nil {
			return err
		}
		fmt.Printf("screenshot written to %s\n", screenshot)
	}

	return nil
}
