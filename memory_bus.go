// memory_bus.go - 4KB memory for the CHIP-8 machine

package main

import "fmt"

// RomTooLargeError is returned when a ROM image cannot fit in the
// program space above the reserved interpreter area.
type RomTooLargeError struct {
	Size int
	Max  int
}

func (e *RomTooLargeError) Error() string {
	return fmt.Sprintf("ROM too large: %d bytes exceeds %d byte program space", e.Size, e.Max)
}

// Memory is the machine's flat 4KB address space. The font table is
// copied in at construction time and restored on Reset; the loaded ROM
// is retained so a reset does not need to touch the filesystem.
//
// All accesses wrap modulo the memory size. Programs depend on
// wraparound addressing, so out-of-range addresses are never an error.
type Memory struct {
	bytes [CHIP8_MEMORY_SIZE]byte
	rom   []byte
}

func NewMemory() *Memory {
	mem := &Memory{}
	copy(mem.bytes[FONT_BASE:], FontSprites[:])
	return mem
}

// LoadROM copies a program image into memory starting at PROG_START.
// The image is retained for Reset.
func (mem *Memory) LoadROM(data []byte) error {
	if len(data) > MAX_ROM_SIZE {
		return &RomTooLargeError{Size: len(data), Max: MAX_ROM_SIZE}
	}
	mem.rom = make([]byte, len(data))
	copy(mem.rom, data)
	copy(mem.bytes[PROG_START:], data)
	return nil
}

// ROM returns the image loaded by LoadROM, nil before the first load.
func (mem *Memory) ROM() []byte {
	return mem.rom
}

func (mem *Memory) Load(addr uint16) byte {
	return mem.bytes[addr&CHIP8_ADDR_MASK]
}

func (mem *Memory) Store(addr uint16, value byte) {
	mem.bytes[addr&CHIP8_ADDR_MASK] = value
}
