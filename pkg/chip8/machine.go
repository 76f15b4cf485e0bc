package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	MemorySize   = 4096
	ProgramStart = 0x200

	DisplayWidth  = 64
	DisplayHeight = 32

	NumRegisters = 16
	NumKeys      = 16
	StackDepth   = 12

	FontGlyphSize = 5

	// MaxImageSize is the largest program image that fits between the
	// entry point and the end of memory (3584 bytes).
	MaxImageSize = MemorySize - ProgramStart
)

var (
	ErrImageTooLarge  = errors.New("program image too large")
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
)

// State is the machine run state. Step only advances while Running;
// Paused is toggled by the host, Halted is entered on a fatal stack fault.
type State int

const (
	Running State = iota
	Paused
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Halted:
		return "halted"
	}
	return "unknown"
}

// Instruction is the current opcode decomposed into its addressing fields.
// It is overwritten by every Step.
type Instruction struct {
	Opcode uint16 // raw big-endian word
	NNN    uint16 // lowest 12 bits: address/constant
	NN     byte   // lowest 8 bits: constant
	N      byte   // lowest 4 bits: constant (sprite height)
	X      byte   // bits 8-11: register operand 1
	Y      byte   // bits 4-7: register operand 2
}

// Decode slices a raw opcode into its fields.
func Decode(op uint16) Instruction {
	return Instruction{
		Opcode: op,
		NNN:    op & 0x0FFF,
		NN:     byte(op & 0x00FF),
		N:      byte(op & 0x000F),
		X:      byte(op>>8) & 0x0F,
		Y:      byte(op>>4) & 0x0F,
	}
}

// Quirks selects between documented divergences of historical interpreters.
// The zero value is the baseline ISA.
type Quirks struct {
	// LoadStoreIncrementsI makes 0xFX55/0xFX65 advance I past the copied
	// registers (SCHIP behavior). Baseline leaves I unmodified.
	LoadStoreIncrementsI bool
	// ShiftUsesVY makes 0x8XY6/0x8XYE shift V[Y] into V[X] instead of
	// shifting V[X] in place.
	ShiftUsesVY bool
}

// fontSet is the built-in 16-glyph hexadecimal font, 5 bytes per glyph,
// written once at address 0x000.
var fontSet = [NumKeys * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Machine is the whole CHIP-8 state. It is owned and mutated by a single
// host thread; the display, timers and keypad are exported so the host's
// render/audio/input collaborators can read and write them directly.
type Machine struct {
	Memory  [MemorySize]byte
	Display [DisplayWidth * DisplayHeight]bool // row-major, true = pixel on

	V  [NumRegisters]byte // V0-VF; VF doubles as the carry/collision flag
	I  uint16
	PC uint16

	Stack [StackDepth]uint16
	SP    int // next free slot

	DelayTimer byte
	SoundTimer byte

	Keypad [NumKeys]bool

	Inst  Instruction
	State State

	Quirks Quirks

	rng *rand.Rand
}

// NewMachine builds a fresh machine: zeroed state, the font table at 0x000,
// the program image at 0x200, PC at the entry point. Fails with
// ErrImageTooLarge rather than truncating an oversized image.
func NewMachine(image []byte) (*Machine, error) {
	if len(image) > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrImageTooLarge, len(image), MaxImageSize)
	}
	m := &Machine{
		PC:    ProgramStart,
		State: Running,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(m.Memory[:], fontSet[:])
	copy(m.Memory[ProgramStart:], image)
	return m, nil
}

// SetRandom replaces the machine's random source (used by 0xCXNN).
// Substituting a fixed-seed source makes runs deterministic.
func (m *Machine) SetRandom(rng *rand.Rand) {
	m.rng = rng
}

// TogglePause flips between Running and Paused. A Halted machine stays
// halted.
func (m *Machine) TogglePause() {
	switch m.State {
	case Running:
		m.State = Paused
	case Paused:
		m.State = Running
	}
}

// Flag returns VF in its carry/collision-flag role.
func (m *Machine) Flag() byte {
	return m.V[0xF]
}

func (m *Machine) setFlag(v byte) {
	m.V[0xF] = v
}

func (m *Machine) push(addr uint16) error {
	if m.SP >= StackDepth {
		return ErrStackOverflow
	}
	m.Stack[m.SP] = addr
	m.SP++
	return nil
}

func (m *Machine) pop() (uint16, error) {
	if m.SP == 0 {
		return 0, ErrStackUnderflow
	}
	m.SP--
	return m.Stack[m.SP], nil
}

// readByte reads memory with the address masked into the 4 KiB space, so a
// malformed I or PC cannot index outside the array.
func (m *Machine) readByte(addr uint16) byte {
	return m.Memory[addr&(MemorySize-1)]
}

// writeByte writes memory with the same masking. Writes into the font table
// are dropped: the table is immutable after construction.
func (m *Machine) writeByte(addr uint16, val byte) {
	addr &= MemorySize - 1
	if addr < uint16(len(fontSet)) {
		return
	}
	m.Memory[addr] = val
}
