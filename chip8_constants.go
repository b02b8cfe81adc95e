// chip8_constants.go - Memory map and machine parameters for the CHIP-8 core

/*
MEMORY MAP OVERVIEW
===================

Address Range    Size     Contents
-----------------------------------------------------------------
0x000-0x04F      80B      Interpreter reserved (unused by OctoEngine)
0x050-0x09F      80B      Hex digit font, 16 glyphs x 5 bytes
0x0A0-0x1FF      352B     Interpreter reserved
0x200-0xFFF      3584B    Program / data space

The 64x32 display buffer, the 16-entry call stack and the V registers
live outside the 4KB address space, as on the original interpreters.
All address arithmetic wraps modulo the memory size; programs rely on
wraparound addressing and it must never fault.
*/

package main

const (
	// Core memory geometry
	CHIP8_MEMORY_SIZE = 4096
	CHIP8_ADDR_MASK   = CHIP8_MEMORY_SIZE - 1
	RESERVED_SIZE     = 0x200
	PROG_START        = 0x200
	MAX_ROM_SIZE      = CHIP8_MEMORY_SIZE - RESERVED_SIZE

	// Font table placement
	FONT_BASE       = 0x050
	FONT_GLYPH_SIZE = 5

	// Display geometry
	SCREEN_WIDTH  = 64
	SCREEN_HEIGHT = 32
	SCREEN_SIZE   = SCREEN_WIDTH * SCREEN_HEIGHT

	// Register file and stack
	NUM_V_REGISTERS = 16
	STACK_DEPTH     = 16
	NUM_KEYS        = 16

	// Instruction format
	OPCODE_SIZE = 2
	SPRITE_BITS = 8

	// Host loop defaults
	DEFAULT_CYCLES_PER_FRAME = 700
	DEFAULT_FRAME_RATE       = 60
	DEFAULT_SCALE            = 10
)

const (
	// Beeper parameters
	SAMPLE_RATE    = 44100
	BEEP_FREQUENCY = 440.0
	BEEP_VOLUME    = 0.25
)

// Display colours, RGBA. The renderer owns colour choice; the core buffer
// is monochrome.
const (
	PIXEL_ON_R = 65
	PIXEL_ON_G = 236
	PIXEL_ON_B = 157

	PIXEL_OFF_R = 15
	PIXEL_OFF_G = 15
	PIXEL_OFF_B = 15
)

// FontSprites is the canonical 80-byte hex font, 5 rows per glyph, the
// leftmost 4 bits of each row forming the visible column pattern.
var FontSprites = [FONT_GLYPH_SIZE * 16]byte{
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
