//go:build !js

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aaj2005/chip8-emulator/pkg/chip8"
)

func TestAddProgram(t *testing.T) {
	// V0=10, V1=5, V0+=V1
	rom := []byte{0x60, 0x0A, 0x61, 0x05, 0x80, 0x14}
	vm, err := chip8.NewMachine(rom)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := vm.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if vm.V[0] != 15 {
		t.Errorf("V0: expected 15, got %d", vm.V[0])
	}
	if vm.Flag() != 0 {
		t.Errorf("VF: expected 0, got %d", vm.Flag())
	}
}

func TestClearAfterDraw(t *testing.T) {
	// LD I, 0x000 (the '0' glyph), DRW V0, V1, 5, CLS
	rom := []byte{0xA0, 0x00, 0xD0, 0x15, 0x00, 0xE0}
	vm, err := chip8.NewMachine(rom)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := vm.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	drawn := false
	for _, on := range vm.Display {
		if on {
			drawn = true
			break
		}
	}
	if !drawn {
		t.Fatal("expected the glyph draw to light pixels")
	}

	if err := vm.Step(); err != nil {
		t.Fatalf("Step CLS: %v", err)
	}
	for i, on := range vm.Display {
		if on {
			t.Fatalf("Display[%d]: expected false after CLS", i)
		}
	}
}

func TestHeadlessRun(t *testing.T) {
	dir := t.TempDir()

	romPath := filepath.Join(dir, "glyph.ch8")
	rom := []byte{
		0xA0, 0x00, // LD I, 0x000
		0xD0, 0x15, // DRW V0, V1, 5
		0x12, 0x04, // JP 0x204 (spin)
	}
	if err := os.WriteFile(romPath, rom, 0o644); err != nil {
		t.Fatalf("write ROM: %v", err)
	}

	shotPath := filepath.Join(dir, "out.png")
	if err := run(romPath, 100, 700, false, shotPath, 1); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(shotPath); err != nil {
		t.Errorf("screenshot not written: %v", err)
	}
}

func TestHeadlessRunStackFault(t *testing.T) {
	dir := t.TempDir()

	romPath := filepath.Join(dir, "ret.ch8")
	if err := os.WriteFile(romPath, []byte{0x00, 0xEE}, 0o644); err != nil {
		t.Fatalf("write ROM: %v", err)
	}

	err := run(romPath, 10, 700, false, "", 0)
	if err == nil {
		t.Fatal("expected a stack underflow error")
	}
	if !strings.Contains(err.Error(), "underflow") {
		t.Errorf("error: expected stack underflow, got %v", err)
	}
}
