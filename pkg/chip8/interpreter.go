package chip8

import "fmt"

// Step executes exactly one instruction: fetch the big-endian word at PC,
// pre-increment PC by 2, decode, dispatch. It is a no-op unless the machine
// is Running. A non-nil error means the run is over (the machine is left
// Halted); unknown opcodes are silently skipped, matching the permissiveness
// of historical interpreters.
func (m *Machine) Step() error {
	if m.State != Running {
		return nil
	}

	op := uint16(m.readByte(m.PC))<<8 | uint16(m.readByte(m.PC+1))
	m.PC += 2
	m.Inst = Decode(op)
	inst := m.Inst

	switch op >> 12 {
	case 0x0:
		switch inst.NN {
		case 0xE0: // 00E0: clear screen
			m.Display = [DisplayWidth * DisplayHeight]bool{}
		case 0xEE: // 00EE: return from subroutine
			addr, err := m.pop()
			if err != nil {
				return m.fault(err)
			}
			m.PC = addr
		}

	case 0x1: // 1NNN: jump
		m.PC = inst.NNN

	case 0x2: // 2NNN: call subroutine
		if err := m.push(m.PC); err != nil {
			return m.fault(err)
		}
		m.PC = inst.NNN

	case 0x3: // 3XNN: skip if VX == NN
		if m.V[inst.X] == inst.NN {
			m.PC += 2
		}

	case 0x4: // 4XNN: skip if VX != NN
		if m.V[inst.X] != inst.NN {
			m.PC += 2
		}

	case 0x5: // 5XY0: skip if VX == VY
		if inst.N == 0 && m.V[inst.X] == m.V[inst.Y] {
			m.PC += 2
		}

	case 0x6: // 6XNN: VX = NN
		m.V[inst.X] = inst.NN

	case 0x7: // 7XNN: VX += NN, no carry flag
		m.V[inst.X] += inst.NN

	case 0x8:
		m.execALU(inst)

	case 0x9: // 9XY0: skip if VX != VY
		if inst.N == 0 && m.V[inst.X] != m.V[inst.Y] {
			m.PC += 2
		}

	case 0xA: // ANNN: I = NNN
		m.I = inst.NNN

	case 0xB: // BNNN: jump to V0 + NNN
		m.PC = uint16(m.V[0]) + inst.NNN

	case 0xC: // CXNN: VX = random byte & NN
		m.V[inst.X] = byte(m.rng.Intn(256)) & inst.NN

	case 0xD: // DXYN: draw sprite
		m.drawSprite(inst)

	case 0xE:
		switch inst.NN {
		case 0x9E: // EX9E: skip if key VX pressed
			if m.Keypad[m.V[inst.X]&0x0F] {
				m.PC += 2
			}
		case 0xA1: // EXA1: skip if key VX not pressed
			if !m.Keypad[m.V[inst.X]&0x0F] {
				m.PC += 2
			}
		}

	case 0xF:
		m.execMisc(inst)
	}

	return nil
}

// fault records a fatal execution error: the machine halts and the error is
// annotated with the offending opcode and its address.
func (m *Machine) fault(err error) error {
	m.State = Halted
	return fmt.Errorf("opcode 0x%04X at 0x%04X: %w", m.Inst.Opcode, m.PC-2, err)
}

// execALU handles the 0x8XYn register-to-register group. Operands are
// captured up front so the flag writes prescribed between reading and
// writing cannot corrupt them when X or Y is VF.
func (m *Machine) execALU(inst Instruction) {
	a, b := m.V[inst.X], m.V[inst.Y]

	switch inst.N {
	case 0x0: // VX = VY
		m.V[inst.X] = b

	case 0x1: // VX |= VY
		m.V[inst.X] = a | b

	case 0x2: // VX &= VY
		m.V[inst.X] = a & b

	case 0x3: // VX ^= VY
		m.V[inst.X] = a ^ b

	case 0x4: // VX += VY, VF = carry out of bit 7
		sum := uint16(a) + uint16(b)
		m.V[inst.X] = byte(sum)
		if sum > 0xFF {
			m.setFlag(1)
		} else {
			m.setFlag(0)
		}

	case 0x5: // VF = no borrow, then VX -= VY
		if a >= b {
			m.setFlag(1)
		} else {
			m.setFlag(0)
		}
		m.V[inst.X] = a - b

	case 0x6: // VF = lsb, then shift right
		src := a
		if m.Quirks.ShiftUsesVY {
			src = b
		}
		m.setFlag(src & 0x01)
		m.V[inst.X] = src >> 1

	case 0x7: // VF = no borrow, then VX = VY - VX
		if b >= a {
			m.setFlag(1)
		} else {
			m.setFlag(0)
		}
		m.V[inst.X] = b - a

	case 0xE: // VF = msb, then shift left
		src := a
		if m.Quirks.ShiftUsesVY {
			src = b
		}
		m.setFlag(src >> 7)
		m.V[inst.X] = src << 1
	}
}

// execMisc handles the 0xFXnn group.
func (m *Machine) execMisc(inst Instruction) {
	switch inst.NN {
	case 0x07: // FX07: VX = delay timer
		m.V[inst.X] = m.DelayTimer

	case 0x0A: // FX0A: wait for a key press
		// Non-blocking wait: if no key is down, rewind PC so the same
		// instruction re-executes on the next Step.
		pressed := false
		for key := byte(0); key < NumKeys; key++ {
			if m.Keypad[key] {
				m.V[inst.X] = key
				pressed = true
				break
			}
		}
		if !pressed {
			m.PC -= 2
		}

	case 0x15: // FX15: delay timer = VX
		m.DelayTimer = m.V[inst.X]

	case 0x18: // FX18: sound timer = VX
		m.SoundTimer = m.V[inst.X]

	case 0x1E: // FX1E: I += VX, no overflow flag
		m.I += uint16(m.V[inst.X])

	case 0x29: // FX29: I = font glyph address for digit VX
		m.I = uint16(m.V[inst.X]) * FontGlyphSize

	case 0x33: // FX33: BCD of VX at I, I+1, I+2
		v := m.V[inst.X]
		m.writeByte(m.I, v/100)
		m.writeByte(m.I+1, (v/10)%10)
		m.writeByte(m.I+2, v%10)

	case 0x55: // FX55: store V0..VX at I
		for r := byte(0); r <= inst.X; r++ {
			m.writeByte(m.I+uint16(r), m.V[r])
		}
		if m.Quirks.LoadStoreIncrementsI {
			m.I += uint16(inst.X) + 1
		}

	case 0x65: // FX65: load V0..VX from I
		for r := byte(0); r <= inst.X; r++ {
			m.V[r] = m.readByte(m.I + uint16(r))
		}
		if m.Quirks.LoadStoreIncrementsI {
			m.I += uint16(inst.X) + 1
		}
	}
}

// drawSprite implements 0xDXYN. The origin wraps into the display; the
// sprite itself clips at the right and bottom edges. VF reports whether any
// lit pixel was cleared (pre-XOR state).
func (m *Machine) drawSprite(inst Instruction) {
	x0 := int(m.V[inst.X]) % DisplayWidth
	y := int(m.V[inst.Y]) % DisplayHeight

	m.setFlag(0)

	for r := 0; r < int(inst.N); r++ {
		row := m.readByte(m.I + uint16(r))
		x := x0

		for bit := 7; bit >= 0; bit-- {
			pixel := &m.Display[y*DisplayWidth+x]
			spriteOn := row&(1<<bit) != 0

			if spriteOn && *pixel {
				m.setFlag(1)
			}
			*pixel = *pixel != spriteOn

			x++
			if x >= DisplayWidth {
				break
			}
		}

		y++
		if y >= DisplayHeight {
			break
		}
	}
}

// TickTimers decrements both timers toward zero. The host calls it at a
// fixed 60 Hz cadence, independent of how many instructions ran that frame.
// SoundTimer reaching zero is the audio collaborator's cue to stop the tone.
func (m *Machine) TickTimers() {
	if m.DelayTimer > 0 {
		m.DelayTimer--
	}
	if m.SoundTimer > 0 {
		m.SoundTimer--
	}
}
