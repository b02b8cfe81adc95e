// cpu_chip8_decode.go - CHIP-8 opcode decoder and mnemonic formatting

package main

import "fmt"

// Chip8Op tags the decoded form of a 16-bit opcode. The set is closed:
// every word decodes to exactly one tag, with OP_UNKNOWN as the catch-all.
type Chip8Op int

const (
	OP_CLS Chip8Op = iota // 00E0  CLS
	OP_RET                // 00EE  RET
	OP_SYS                // 0NNN  SYS NNN (ignored by modern interpreters)
	OP_JP                 // 1NNN  JP NNN
	OP_CALL               // 2NNN  CALL NNN
	OP_SE_VX_NN           // 3XNN  SE VX, NN
	OP_SNE_VX_NN          // 4XNN  SNE VX, NN
	OP_SE_VX_VY           // 5XY0  SE VX, VY
	OP_LD_VX_NN           // 6XNN  LD VX, NN
	OP_ADD_VX_NN          // 7XNN  ADD VX, NN (no carry flag)
	OP_LD_VX_VY           // 8XY0  LD VX, VY
	OP_OR_VX_VY           // 8XY1  OR VX, VY
	OP_AND_VX_VY          // 8XY2  AND VX, VY
	OP_XOR_VX_VY          // 8XY3  XOR VX, VY
	OP_ADD_VX_VY          // 8XY4  ADD VX, VY (VF = carry)
	OP_SUB_VX_VY          // 8XY5  SUB VX, VY (VF = no borrow)
	OP_SHR_VX             // 8XY6  SHR VX (VF = shifted-out bit)
	OP_SUBN_VX_VY         // 8XY7  SUBN VX, VY (VF = no borrow)
	OP_SHL_VX             // 8XYE  SHL VX (VF = shifted-out bit)
	OP_SNE_VX_VY          // 9XY0  SNE VX, VY
	OP_LD_I_NNN           // ANNN  LD I, NNN
	OP_JP_V0_NNN          // BNNN  JP V0, NNN
	OP_RND_VX_NN          // CXNN  RND VX, NN
	OP_DRW_VX_VY_N        // DXYN  DRW VX, VY, N
	OP_SKP_VX             // EX9E  SKP VX
	OP_SKNP_VX            // EXA1  SKNP VX
	OP_LD_VX_DT           // FX07  LD VX, DT
	OP_LD_VX_K            // FX0A  LD VX, K (wait for key press)
	OP_LD_DT_VX           // FX15  LD DT, VX
	OP_LD_ST_VX           // FX18  LD ST, VX
	OP_ADD_I_VX           // FX1E  ADD I, VX
	OP_LD_F_VX            // FX29  LD F, VX (I = font glyph address)
	OP_BCD_VX             // FX33  BCD VX
	OP_LD_I_VX            // FX55  LD [I], VX (store V0..VX)
	OP_LD_VX_I            // FX65  LD VX, [I] (load V0..VX)
	OP_UNKNOWN
)

// Chip8Instruction is the decoded form of one opcode word. Fields that a
// given operation does not use are zero; Raw always holds the original word.
type Chip8Instruction struct {
	Op  Chip8Op
	X   byte   // second nibble, usually a VX index
	Y   byte   // third nibble, usually a VY index
	N   byte   // low nibble
	NN  byte   // low byte
	NNN uint16 // low 12 bits, an address
	Raw uint16
}

// DecodeOpcode is a pure function of the opcode word: the same word always
// yields the same instruction. Dispatch is on the high nibble, with the
// 0, 8, E and F families refined by their low nibbles.
func DecodeOpcode(word uint16) Chip8Instruction {
	in := Chip8Instruction{
		X:   byte(word >> 8 & 0xF),
		Y:   byte(word >> 4 & 0xF),
		N:   byte(word & 0xF),
		NN:  byte(word & 0xFF),
		NNN: word & 0xFFF,
		Raw: word,
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			in.Op = OP_CLS
		case 0x00EE:
			in.Op = OP_RET
		default:
			in.Op = OP_SYS
		}
	case 0x1:
		in.Op = OP_JP
	case 0x2:
		in.Op = OP_CALL
	case 0x3:
		in.Op = OP_SE_VX_NN
	case 0x4:
		in.Op = OP_SNE_VX_NN
	case 0x5:
		if in.N == 0x0 {
			in.Op = OP_SE_VX_VY
		} else {
			in.Op = OP_UNKNOWN
		}
	case 0x6:
		in.Op = OP_LD_VX_NN
	case 0x7:
		in.Op = OP_ADD_VX_NN
	case 0x8:
		switch in.N {
		case 0x0:
			in.Op = OP_LD_VX_VY
		case 0x1:
			in.Op = OP_OR_VX_VY
		case 0x2:
			in.Op = OP_AND_VX_VY
		case 0x3:
			in.Op = OP_XOR_VX_VY
		case 0x4:
			in.Op = OP_ADD_VX_VY
		case 0x5:
			in.Op = OP_SUB_VX_VY
		case 0x6:
			in.Op = OP_SHR_VX
		case 0x7:
			in.Op = OP_SUBN_VX_VY
		case 0xE:
			in.Op = OP_SHL_VX
		default:
			in.Op = OP_UNKNOWN
		}
	case 0x9:
		if in.N == 0x0 {
			in.Op = OP_SNE_VX_VY
		} else {
			in.Op = OP_UNKNOWN
		}
	case 0xA:
		in.Op = OP_LD_I_NNN
	case 0xB:
		in.Op = OP_JP_V0_NNN
	case 0xC:
		in.Op = OP_RND_VX_NN
	case 0xD:
		in.Op = OP_DRW_VX_VY_N
	case 0xE:
		switch in.NN {
		case 0x9E:
			in.Op = OP_SKP_VX
		case 0xA1:
			in.Op = OP_SKNP_VX
		default:
			in.Op = OP_UNKNOWN
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			in.Op = OP_LD_VX_DT
		case 0x0A:
			in.Op = OP_LD_VX_K
		case 0x15:
			in.Op = OP_LD_DT_VX
		case 0x18:
			in.Op = OP_LD_ST_VX
		case 0x1E:
			in.Op = OP_ADD_I_VX
		case 0x29:
			in.Op = OP_LD_F_VX
		case 0x33:
			in.Op = OP_BCD_VX
		case 0x55:
			in.Op = OP_LD_I_VX
		case 0x65:
			in.Op = OP_LD_VX_I
		default:
			in.Op = OP_UNKNOWN
		}
	}
	return in
}

// String renders the conventional assembly mnemonic for the instruction.
func (in Chip8Instruction) String() string {
	switch in.Op {
	case OP_CLS:
		return "CLS"
	case OP_RET:
		return "RET"
	case OP_SYS:
		return fmt.Sprintf("SYS 0x%03X", in.NNN)
	case OP_JP:
		return fmt.Sprintf("JP 0x%03X", in.NNN)
	case OP_CALL:
		return fmt.Sprintf("CALL 0x%03X", in.NNN)
	case OP_SE_VX_NN:
		return fmt.Sprintf("SE V%X, 0x%02X", in.X, in.NN)
	case OP_SNE_VX_NN:
		return fmt.Sprintf("SNE V%X, 0x%02X", in.X, in.NN)
	case OP_SE_VX_VY:
		return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
	case OP_LD_VX_NN:
		return fmt.Sprintf("LD V%X, 0x%02X", in.X, in.NN)
	case OP_ADD_VX_NN:
		return fmt.Sprintf("ADD V%X, 0x%02X", in.X, in.NN)
	case OP_LD_VX_VY:
		return fmt.Sprintf("LD V%X, V%X", in.X, in.Y)
	case OP_OR_VX_VY:
		return fmt.Sprintf("OR V%X, V%X", in.X, in.Y)
	case OP_AND_VX_VY:
		return fmt.Sprintf("AND V%X, V%X", in.X, in.Y)
	case OP_XOR_VX_VY:
		return fmt.Sprintf("XOR V%X, V%X", in.X, in.Y)
	case OP_ADD_VX_VY:
		return fmt.Sprintf("ADD V%X, V%X", in.X, in.Y)
	case OP_SUB_VX_VY:
		return fmt.Sprintf("SUB V%X, V%X", in.X, in.Y)
	case OP_SHR_VX:
		return fmt.Sprintf("SHR V%X", in.X)
	case OP_SUBN_VX_VY:
		return fmt.Sprintf("SUBN V%X, V%X", in.X, in.Y)
	case OP_SHL_VX:
		return fmt.Sprintf("SHL V%X", in.X)
	case OP_SNE_VX_VY:
		return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
	case OP_LD_I_NNN:
		return fmt.Sprintf("LD I, 0x%03X", in.NNN)
	case OP_JP_V0_NNN:
		return fmt.Sprintf("JP V0, 0x%03X", in.NNN)
	case OP_RND_VX_NN:
		return fmt.Sprintf("RND V%X, 0x%02X", in.X, in.NN)
	case OP_DRW_VX_VY_N:
		return fmt.Sprintf("DRW V%X, V%X, %d", in.X, in.Y, in.N)
	case OP_SKP_VX:
		return fmt.Sprintf("SKP V%X", in.X)
	case OP_SKNP_VX:
		return fmt.Sprintf("SKNP V%X", in.X)
	case OP_LD_VX_DT:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case OP_LD_VX_K:
		return fmt.Sprintf("LD V%X, K", in.X)
	case OP_LD_DT_VX:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case OP_LD_ST_VX:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case OP_ADD_I_VX:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case OP_LD_F_VX:
		return fmt.Sprintf("LD F, V%X", in.X)
	case OP_BCD_VX:
		return fmt.Sprintf("BCD V%X", in.X)
	case OP_LD_I_VX:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case OP_LD_VX_I:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	default:
		return fmt.Sprintf("UNKNOWN 0x%04X", in.Raw)
	}
}
