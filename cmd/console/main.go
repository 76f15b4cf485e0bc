//go:build linux

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/aaj2005/chip8-emulator/pkg/chip8"
)

const usage = "console [flags] <rom>"

// keyHoldFrames is how many frames a key counts as pressed after its byte
// arrives; terminals report repeats, not key-up events.
const keyHoldFrames = 6

// keyChars maps CHIP-8 key 0x0-0xF to the character on the
// 1234/QWER/ASDF/ZXCV block, same layout as the desktop front end.
var keyChars = [chip8.NumKeys]byte{
	'x', '1', '2', '3',
	'q', 'w', 'e', 'a',
	's', 'd', 'z', 'c',
	'4', 'r', 'f', 'v',
}

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

// pollKeys drains pending stdin bytes into the keypad. Returns false when
// the user asked to quit (ESC).
func pollKeys(vm *chip8.Machine, held *[chip8.NumKeys]int) bool {
	var buf [64]byte
	n, _ := os.Stdin.Read(buf[:])

	for _, b := range buf[:n] {
		switch b {
		case 0x1b: // ESC
			return false
		case ' ':
			vm.TogglePause()
		default:
			for i, ch := range keyChars {
				if b == ch {
					held[i] = keyHoldFrames
				}
			}
		}
	}

	for i := range held {
		vm.Keypad[i] = held[i] > 0
		if held[i] > 0 {
			held[i]--
		}
	}

	return true
}

// render draws the display with one half-block rune per vertical pixel
// pair, plus a status line.
func render(vm *chip8.Machine) {
	var sb strings.Builder
	sb.WriteString("\x1b[H")

	for y := 0; y < chip8.DisplayHeight; y += 2 {
		for x := 0; x < chip8.DisplayWidth; x++ {
			top := vm.Display[y*chip8.DisplayWidth+x]
			bottom := vm.Display[(y+1)*chip8.DisplayWidth+x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}

	fmt.Fprintf(&sb, "[%s] PC=0x%04X DT=%3d ST=%3d  (ESC quits, SPACE pauses)\r\n",
		vm.State, vm.PC, vm.DelayTimer, vm.SoundTimer)
	os.Stdout.WriteString(sb.String())
}

func console() int {
	clock := flag.Int("clock", 700, "instructions per second")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Println(usage)
		return 1
	}

	rom, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Println(err)
		return 1
	}

	vm, err := chip8.NewMachine(rom)
	if err != nil {
		log.Println(err)
		return 1
	}

	if err := enterRawTerm(); err != nil {
		log.Println(err)
		return 1
	}
	defer exitRawTerm()

	os.Stdout.WriteString("\x1b[2J\x1b[?25l") // clear screen, hide cursor
	defer os.Stdout.WriteString("\x1b[?25h\x1b[2J\x1b[H")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	steps := *clock / 60
	if steps < 1 {
		steps = 1
	}

	var held [chip8.NumKeys]int
	prevSound := byte(0)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case <-interrupt:
			return 0
		case <-ticker.C:
		}

		if !pollKeys(vm, &held) {
			return 0
		}

		for i := 0; i < steps && vm.State == chip8.Running; i++ {
			if err := vm.Step(); err != nil {
				render(vm)
				log.Println(err)
				return 1
			}
		}

		if vm.State == chip8.Running {
			vm.TickTimers()
		}

		// The terminal has no tone generator; ring the bell on the
		// rising edge of the sound timer instead.
		if vm.SoundTimer > 0 && prevSound == 0 {
			os.Stdout.WriteString("\a")
		}
		prevSound = vm.SoundTimer

		render(vm)
	}
}

func main() {
	os.Exit(console())
}
