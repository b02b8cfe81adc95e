// component_reset.go - Reset() methods for all hardware components (hard reset support)

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

// Memory.Reset restores the power-on state: font table in place, program
// space cleared and the retained ROM copied back in.
func (mem *Memory) Reset() {
	for i := range mem.bytes {
		mem.bytes[i] = 0
	}
	copy(mem.bytes[FONT_BASE:], FontSprites[:])
	copy(mem.bytes[PROG_START:], mem.rom)
}

// CPU.Reset returns the register file, stack, timers and key-wait latch
// to their power-on state. Speed and quirk settings survive a reset.
func (cpu *CPU) Reset() {
	cpu.V = [NUM_V_REGISTERS]byte{}
	cpu.I = 0
	cpu.PC = PROG_START
	cpu.Stack = [STACK_DEPTH]uint16{}
	cpu.SP = 0
	cpu.DelayTimer = 0
	cpu.SoundTimer = 0
	cpu.keys = [NUM_KEYS]bool{}
	cpu.prevKeys = [NUM_KEYS]bool{}
	cpu.waitingKey = false
	cpu.waitingReg = 0
	cpu.running = true
}

// VideoChip.Reset blanks the display.
func (v *VideoChip) Reset() {
	v.Clear()
}

// SoundChip.Reset silences the beeper. Preserves the OTO output stream.
func (chip *SoundChip) Reset() {
	chip.beeping.Store(false)
}

// resetAllComponents performs a hard reset of the whole machine, the
// same state as power-on with the ROM still loaded. Bound to F10 in the
// windowed backend.
func resetAllComponents(cpu *CPU, mem *Memory, video *VideoChip, sound *SoundChip) {
	mem.Reset()
	video.Reset()
	if sound != nil {
		sound.Reset()
	}
	cpu.Reset()
}
