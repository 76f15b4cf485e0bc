package chip8

import "fmt"

// Disassemble renders a decoded instruction as a conventional CHIP-8
// mnemonic. Patterns the interpreter does not recognize render as a data
// word (DW), mirroring how Step treats them: skipped, not faulted.
func Disassemble(inst Instruction) string {
	op := inst.Opcode

	switch op >> 12 {
	case 0x0:
		switch inst.NN {
		case 0xE0:
			return "CLS"
		case 0xEE:
			return "RET"
		}
	case 0x1:
		return fmt.Sprintf("JP 0x%03X", inst.NNN)
	case 0x2:
		return fmt.Sprintf("CALL 0x%03X", inst.NNN)
	case 0x3:
		return fmt.Sprintf("SE V%X, 0x%02X", inst.X, inst.NN)
	case 0x4:
		return fmt.Sprintf("SNE V%X, 0x%02X", inst.X, inst.NN)
	case 0x5:
		if inst.N == 0 {
			return fmt.Sprintf("SE V%X, V%X", inst.X, inst.Y)
		}
	case 0x6:
		return fmt.Sprintf("LD V%X, 0x%02X", inst.X, inst.NN)
	case 0x7:
		return fmt.Sprintf("ADD V%X, 0x%02X", inst.X, inst.NN)
	case 0x8:
		switch inst.N {
		case 0x0:
			return fmt.Sprintf("LD V%X, V%X", inst.X, inst.Y)
		case 0x1:
			return fmt.Sprintf("OR V%X, V%X", inst.X, inst.Y)
		case 0x2:
			return fmt.Sprintf("AND V%X, V%X", inst.X, inst.Y)
		case 0x3:
			return fmt.Sprintf("XOR V%X, V%X", inst.X, inst.Y)
		case 0x4:
			return fmt.Sprintf("ADD V%X, V%X", inst.X, inst.Y)
		case 0x5:
			return fmt.Sprintf("SUB V%X, V%X", inst.X, inst.Y)
		case 0x6:
			return fmt.Sprintf("SHR V%X", inst.X)
		case 0x7:
			return fmt.Sprintf("SUBN V%X, V%X", inst.X, inst.Y)
		case 0xE:
			return fmt.Sprintf("SHL V%X", inst.X)
		}
	case 0x9:
		if inst.N == 0 {
			return fmt.Sprintf("SNE V%X, V%X", inst.X, inst.Y)
		}
	case 0xA:
		return fmt.Sprintf("LD I, 0x%03X", inst.NNN)
	case 0xB:
		return fmt.Sprintf("JP V0, 0x%03X", inst.NNN)
	case 0xC:
		return fmt.Sprintf("RND V%X, 0x%02X", inst.X, inst.NN)
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, %d", inst.X, inst.Y, inst.N)
	case 0xE:
		switch inst.NN {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", inst.X)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", inst.X)
		}
	case 0xF:
		switch inst.NN {
		case 0x07:
			return fmt.Sprintf("LD V%X, DT", inst.X)
		case 0x0A:
			return fmt.Sprintf("LD V%X, K", inst.X)
		case 0x15:
			return fmt.Sprintf("LD DT, V%X", inst.X)
		case 0x18:
			return fmt.Sprintf("LD ST, V%X", inst.X)
		case 0x1E:
			return fmt.Sprintf("ADD I, V%X", inst.X)
		case 0x29:
			return fmt.Sprintf("LD F, V%X", inst.X)
		case 0x33:
			return fmt.Sprintf("LD B, V%X", inst.X)
		case 0x55:
			return fmt.Sprintf("LD [I], V%X", inst.X)
		case 0x65:
			return fmt.Sprintf("LD V%X, [I]", inst.X)
		}
	}

	return fmt.Sprintf("DW 0x%04X", op)
}
