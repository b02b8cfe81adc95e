// debug_disasm_chip8.go - Static CHIP-8 disassembler with control flow tracing

package main

import (
	"fmt"
	"sort"
	"strings"
)

// Disassembly separates code from data by tracing reachable control flow
// instead of decoding the ROM linearly. CHIP-8 ROMs interleave sprite
// data with code, so a linear decode produces garbage past the first
// data byte. Tracing starts at the program entry point and follows jumps
// and calls; anything never reached is listed as data with its bit
// pattern visible, since unreached bytes are usually sprites.
//
// JP V0, addr cannot be traced statically because its target depends on
// runtime register state. Such instructions end their segment and are
// flagged in the listing.
type Disassembly struct {
	rom     []byte
	code    map[uint16]Chip8Instruction
	labels  map[uint16]string
	dataRef map[uint16]bool
}

// DisassembleROM traces a program image as loaded at the program start
// address.
func DisassembleROM(rom []byte) *Disassembly {
	d := &Disassembly{
		rom:     rom,
		code:    make(map[uint16]Chip8Instruction),
		labels:  make(map[uint16]string),
		dataRef: make(map[uint16]bool),
	}
	d.trace()
	return d
}

// inROM reports whether a full opcode can be fetched at addr.
func (d *Disassembly) inROM(addr uint16) bool {
	off := int(addr) - PROG_START
	return off >= 0 && off+1 < len(d.rom)
}

func (d *Disassembly) word(addr uint16) uint16 {
	off := int(addr) - PROG_START
	return uint16(d.rom[off])<<8 | uint16(d.rom[off+1])
}

// trace walks every address reachable from the entry point. Segments
// pending exploration live in a work queue; each runs linearly until a
// RET, an unconditional JP, or the end of the image.
func (d *Disassembly) trace() {
	queue := []uint16{PROG_START}

	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]

	segment:
		for d.inROM(addr) {
			if _, seen := d.code[addr]; seen {
				break
			}
			in := DecodeOpcode(d.word(addr))
			d.code[addr] = in

			switch in.Op {
			case OP_JP:
				d.markCodeLabel(in.NNN)
				queue = append(queue, in.NNN)
				break segment
			case OP_CALL:
				d.markCodeLabel(in.NNN)
				queue = append(queue, in.NNN)
			case OP_RET:
				break segment
			case OP_JP_V0_NNN:
				// Target depends on V0; the base address is at least
				// worth a label.
				d.markCodeLabel(in.NNN)
				break segment
			case OP_LD_I_NNN:
				d.markDataLabel(in.NNN)
			}
			addr += OPCODE_SIZE
		}
	}
}

func (d *Disassembly) markCodeLabel(addr uint16) {
	if _, ok := d.labels[addr]; !ok {
		d.labels[addr] = fmt.Sprintf("L_%03X", addr)
	}
}

func (d *Disassembly) markDataLabel(addr uint16) {
	d.dataRef[addr] = true
	if _, ok := d.labels[addr]; !ok {
		d.labels[addr] = fmt.Sprintf("D_%03X", addr)
	}
}

// IsCode reports whether the tracer reached addr as an instruction.
func (d *Disassembly) IsCode(addr uint16) bool {
	_, ok := d.code[addr]
	return ok
}

// Label returns the label assigned to addr, if any.
func (d *Disassembly) Label(addr uint16) (string, bool) {
	label, ok := d.labels[addr]
	return label, ok
}

// CodeAddresses returns every traced instruction address in order.
func (d *Disassembly) CodeAddresses() []uint16 {
	addrs := make([]uint16, 0, len(d.code))
	for addr := range d.code {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// operandLabel substitutes a label for the numeric operand of
// address-taking instructions.
func (d *Disassembly) operandLabel(in Chip8Instruction) string {
	switch in.Op {
	case OP_JP:
		if label, ok := d.labels[in.NNN]; ok {
			return "JP " + label
		}
	case OP_CALL:
		if label, ok := d.labels[in.NNN]; ok {
			return "CALL " + label
		}
	case OP_LD_I_NNN:
		if label, ok := d.labels[in.NNN]; ok {
			return "LD I, " + label
		}
	case OP_JP_V0_NNN:
		if label, ok := d.labels[in.NNN]; ok {
			return fmt.Sprintf("JP V0, %s ; runtime target", label)
		}
	}
	return in.String()
}

// Listing renders the whole image, code as mnemonics and unreached
// bytes as data directives with their bit patterns spelled out.
func (d *Disassembly) Listing() string {
	var sb strings.Builder

	addr := uint16(PROG_START)
	end := PROG_START + uint16(len(d.rom))
	for addr < end {
		if label, ok := d.labels[addr]; ok {
			fmt.Fprintf(&sb, "%s:\n", label)
		}
		if in, ok := d.code[addr]; ok {
			fmt.Fprintf(&sb, "  0x%03X: %04X  %s\n", addr, in.Raw, d.operandLabel(in))
			addr += OPCODE_SIZE
			continue
		}
		b := d.rom[addr-PROG_START]
		fmt.Fprintf(&sb, "  0x%03X:   %02X  DB %08b\n", addr, b, b)
		addr++
	}
	return sb.String()
}
