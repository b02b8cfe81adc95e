// cpu_chip8.go - CHIP-8 CPU core for OctoEngine

/*
  ___   ____ _____  ___     _____ _   _   ____  ___  _   _  _____
 / _ \ / ___|_   _|/ _ \   | ____| \ | | / ___||_ _|| \ | || ____|
| | | | |     | | | | | |  |  _| |  \| || |  _  | | |  \| ||  _|
| |_| | |___  | | | |_| |  | |___| |\  || |_| | | | | |\  || |___
 \___/ \____| |_|  \___/   |_____|_| \_| \____||___||_| \_||_____|

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/OctoEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"math/rand/v2"
)

// UnknownInstructionError reports a word that decodes to no documented
// operation. It is fatal: the machine halts with the failing opcode and
// address preserved for diagnostics.
type UnknownInstructionError struct {
	Opcode uint16
	PC     uint16
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown instruction 0x%04X at PC=0x%03X", e.Opcode, e.PC)
}

// StackFaultError reports call stack overflow or underflow. Both are fatal.
type StackFaultError struct {
	Kind string // "overflow" or "underflow"
	PC   uint16
}

func (e *StackFaultError) Error() string {
	return fmt.Sprintf("stack %s at PC=0x%03X", e.Kind, e.PC)
}

// CPU executes the CHIP-8 instruction set against a Memory and a
// VideoChip. Execution is strictly sequential and deterministic given the
// machine state and the injected random source; the host loop is the only
// scheduler. The sound and delay timers belong to the CPU but are
// decremented by TickTimers at the host frame cadence, independent of
// instruction throughput.
type CPU struct {
	V     [NUM_V_REGISTERS]byte
	I     uint16
	PC    uint16
	Stack [STACK_DEPTH]uint16
	SP    int

	DelayTimer byte
	SoundTimer byte

	// Keypad snapshots, written wholesale by the host once per frame.
	// prevKeys backs the press-edge detection used by LD VX, K.
	keys     [NUM_KEYS]bool
	prevKeys [NUM_KEYS]bool

	// Key-wait latch for LD VX, K. While armed the CPU retires no
	// instructions; each frame that observes no fresh press is consumed
	// whole.
	waitingKey bool
	waitingReg byte

	cyclesPerFrame int
	shiftFromVY    bool
	running        bool

	randByte func() byte
	monitor  *DebugMonitor

	mem   *Memory
	video *VideoChip
}

func NewCPU(mem *Memory, video *VideoChip) *CPU {
	return &CPU{
		PC:             PROG_START,
		cyclesPerFrame: DEFAULT_CYCLES_PER_FRAME,
		running:        true,
		randByte:       func() byte { return byte(rand.IntN(256)) },
		mem:            mem,
		video:          video,
	}
}

// SetCyclesPerFrame overrides the per-frame instruction burst. Values are
// validated at configuration time; the CPU trusts its caller here.
func (cpu *CPU) SetCyclesPerFrame(cycles int) {
	cpu.cyclesPerFrame = cycles
}

// SetShiftFromVY selects the COSMAC interpretation of 8XY6/8XYE, where the
// shift source is VY rather than VX. The default matches the majority of
// modern ROMs: shift VX in place, ignore Y.
func (cpu *CPU) SetShiftFromVY(enabled bool) {
	cpu.shiftFromVY = enabled
}

func (cpu *CPU) SetMonitor(monitor *DebugMonitor) {
	cpu.monitor = monitor
}

func (cpu *CPU) IsRunning() bool {
	return cpu.running
}

// SetKeypad installs the host's per-frame key snapshot, keeping the
// previous frame's snapshot for press-edge detection.
func (cpu *CPU) SetKeypad(snapshot [NUM_KEYS]bool) {
	cpu.prevKeys = cpu.keys
	cpu.keys = snapshot
}

// LoadROM loads a program image and rewinds the PC to the program start.
func (cpu *CPU) LoadROM(data []byte) error {
	if err := cpu.mem.LoadROM(data); err != nil {
		return err
	}
	cpu.PC = PROG_START
	return nil
}

// RunFrame executes one frame's worth of instructions. When the key-wait
// latch is armed the remaining cycles of the frame are forfeited; the
// waiting instruction consumes a whole frame each time no fresh key press
// is observed. A fatal execution error halts the machine and is returned
// to the host.
func (cpu *CPU) RunFrame() error {
	for i := 0; i < cpu.cyclesPerFrame; i++ {
		if cpu.waitingKey {
			cpu.pollWaitedKey()
			return nil
		}
		if err := cpu.Step(); err != nil {
			cpu.running = false
			return err
		}
	}
	return nil
}

// TickTimers decrements the delay and sound timers while nonzero. The host
// calls it once per frame at the 60Hz cadence regardless of CPU speed.
func (cpu *CPU) TickTimers() {
	if cpu.DelayTimer > 0 {
		cpu.DelayTimer--
	}
	if cpu.SoundTimer > 0 {
		cpu.SoundTimer--
	}
}

// pollWaitedKey resolves an armed key-wait latch: a key down this frame
// that was up on the previous snapshot completes the wait. A key already
// held when the wait was armed does not count; the press must be fresh.
func (cpu *CPU) pollWaitedKey() {
	for k := 0; k < NUM_KEYS; k++ {
		if cpu.keys[k] && !cpu.prevKeys[k] {
			cpu.V[cpu.waitingReg] = byte(k)
			cpu.waitingKey = false
			return
		}
	}
}

func (cpu *CPU) push(value uint16) error {
	if cpu.SP >= STACK_DEPTH {
		return &StackFaultError{Kind: "overflow", PC: cpu.PC}
	}
	cpu.Stack[cpu.SP] = value
	cpu.SP++
	return nil
}

func (cpu *CPU) pop() (uint16, error) {
	if cpu.SP <= 0 {
		return 0, &StackFaultError{Kind: "underflow", PC: cpu.PC}
	}
	cpu.SP--
	return cpu.Stack[cpu.SP], nil
}

// Step performs one fetch-decode-execute cycle. The PC advances by 2
// before dispatch so that jumps and calls may overwrite it. Each step is
// atomic: on a fatal error the machine state reflects everything up to,
// but not including, the failing instruction's effects.
func (cpu *CPU) Step() error {
	fetchPC := cpu.PC
	word := uint16(cpu.mem.Load(fetchPC))<<8 | uint16(cpu.mem.Load(fetchPC+1))
	cpu.PC = (cpu.PC + OPCODE_SIZE) & CHIP8_ADDR_MASK

	in := DecodeOpcode(word)

	if cpu.monitor != nil {
		cpu.monitor.TraceStep(cpu, fetchPC, in)
	}

	switch in.Op {
	case OP_CLS:
		cpu.video.Clear()

	case OP_RET:
		addr, err := cpu.pop()
		if err != nil {
			return err
		}
		cpu.PC = addr

	case OP_SYS:
		// Machine-code trap on the COSMAC VIP; a no-op everywhere since.

	case OP_JP:
		cpu.PC = in.NNN

	case OP_CALL:
		if err := cpu.push(cpu.PC); err != nil {
			return err
		}
		cpu.PC = in.NNN

	case OP_SE_VX_NN:
		cpu.skipIf(cpu.V[in.X] == in.NN)

	case OP_SNE_VX_NN:
		cpu.skipIf(cpu.V[in.X] != in.NN)

	case OP_SE_VX_VY:
		cpu.skipIf(cpu.V[in.X] == cpu.V[in.Y])

	case OP_LD_VX_NN:
		cpu.V[in.X] = in.NN

	case OP_ADD_VX_NN:
		// Wraps mod 256, no carry flag. Distinct from ADD VX, VY.
		cpu.V[in.X] += in.NN

	case OP_LD_VX_VY:
		cpu.V[in.X] = cpu.V[in.Y]

	case OP_OR_VX_VY:
		cpu.V[in.X] |= cpu.V[in.Y]

	case OP_AND_VX_VY:
		cpu.V[in.X] &= cpu.V[in.Y]

	case OP_XOR_VX_VY:
		cpu.V[in.X] ^= cpu.V[in.Y]

	case OP_ADD_VX_VY:
		sum := uint16(cpu.V[in.X]) + uint16(cpu.V[in.Y])
		cpu.V[in.X] = byte(sum)
		cpu.V[0xF] = btou8(sum > 0xFF)

	case OP_SUB_VX_VY:
		noBorrow := btou8(cpu.V[in.X] >= cpu.V[in.Y])
		cpu.V[in.X] -= cpu.V[in.Y]
		cpu.V[0xF] = noBorrow

	case OP_SHR_VX:
		src := cpu.V[in.X]
		if cpu.shiftFromVY {
			src = cpu.V[in.Y]
		}
		cpu.V[in.X] = src >> 1
		cpu.V[0xF] = src & 0x1

	case OP_SUBN_VX_VY:
		noBorrow := btou8(cpu.V[in.Y] >= cpu.V[in.X])
		cpu.V[in.X] = cpu.V[in.Y] - cpu.V[in.X]
		cpu.V[0xF] = noBorrow

	case OP_SHL_VX:
		src := cpu.V[in.X]
		if cpu.shiftFromVY {
			src = cpu.V[in.Y]
		}
		cpu.V[in.X] = src << 1
		cpu.V[0xF] = src >> 7

	case OP_SNE_VX_VY:
		cpu.skipIf(cpu.V[in.X] != cpu.V[in.Y])

	case OP_LD_I_NNN:
		cpu.I = in.NNN

	case OP_JP_V0_NNN:
		cpu.PC = (in.NNN + uint16(cpu.V[0x0])) & CHIP8_ADDR_MASK

	case OP_RND_VX_NN:
		cpu.V[in.X] = cpu.randByte() & in.NN

	case OP_DRW_VX_VY_N:
		rows := make([]byte, in.N)
		for row := range rows {
			rows[row] = cpu.mem.Load(cpu.I + uint16(row))
		}
		collision := cpu.video.DrawSprite(cpu.V[in.X], cpu.V[in.Y], rows)
		cpu.V[0xF] = btou8(collision)

	case OP_SKP_VX:
		cpu.skipIf(cpu.keys[cpu.V[in.X]&0xF])

	case OP_SKNP_VX:
		cpu.skipIf(!cpu.keys[cpu.V[in.X]&0xF])

	case OP_LD_VX_DT:
		cpu.V[in.X] = cpu.DelayTimer

	case OP_LD_VX_K:
		cpu.waitingKey = true
		cpu.waitingReg = in.X

	case OP_LD_DT_VX:
		cpu.DelayTimer = cpu.V[in.X]

	case OP_LD_ST_VX:
		cpu.SoundTimer = cpu.V[in.X]

	case OP_ADD_I_VX:
		cpu.I = (cpu.I + uint16(cpu.V[in.X])) & CHIP8_ADDR_MASK

	case OP_LD_F_VX:
		cpu.I = FONT_BASE + uint16(cpu.V[in.X]&0xF)*FONT_GLYPH_SIZE

	case OP_BCD_VX:
		value := cpu.V[in.X]
		cpu.mem.Store(cpu.I, value/100)
		cpu.mem.Store(cpu.I+1, value%100/10)
		cpu.mem.Store(cpu.I+2, value%10)

	case OP_LD_I_VX:
		for i := byte(0); i <= in.X; i++ {
			cpu.mem.Store(cpu.I+uint16(i), cpu.V[i])
		}

	case OP_LD_VX_I:
		for i := byte(0); i <= in.X; i++ {
			cpu.V[i] = cpu.mem.Load(cpu.I + uint16(i))
		}

	default:
		return &UnknownInstructionError{Opcode: word, PC: fetchPC}
	}

	return nil
}

// skipIf advances the PC past the next instruction when the condition
// holds.
func (cpu *CPU) skipIf(condition bool) {
	if condition {
		cpu.PC = (cpu.PC + OPCODE_SIZE) & CHIP8_ADDR_MASK
	}
}

func btou8(b bool) byte {
	if b {
		return 1
	}
	return 0
}
