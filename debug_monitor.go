// debug_monitor.go - Runtime execution monitor for OctoEngine

package main

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// DebugMonitor logs every retired instruction with the register file
// attached. The output volume is enormous at normal clock speeds, so the
// monitor is only installed when tracing is requested, and the CPU skips
// the hook entirely otherwise.
type DebugMonitor struct {
	logger *log.Logger
}

func NewDebugMonitor(logger *log.Logger) *DebugMonitor {
	return &DebugMonitor{logger: logger}
}

// TraceStep is called by the CPU after fetch, before execute, with the
// address the instruction was fetched from.
func (m *DebugMonitor) TraceStep(cpu *CPU, pc uint16, in Chip8Instruction) {
	m.logger.Debug(in.String(),
		log.Hex("pc", pc),
		log.Hex("opcode", in.Raw),
		log.Hex("i", cpu.I),
		log.Uint8("sp", uint8(cpu.SP)),
		log.Uint8("dt", cpu.DelayTimer),
		log.Uint8("st", cpu.SoundTimer),
		log.String("v", formatRegisters(cpu.V)),
	)
}

func formatRegisters(v [NUM_V_REGISTERS]byte) string {
	var sb strings.Builder
	for i, value := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", value)
	}
	return sb.String()
}

// ScreenDump renders the framebuffer as ASCII art, one character per
// pixel. Useful for debugging draw behavior without a window.
func ScreenDump(video *VideoChip) string {
	pixels := video.Snapshot()
	var sb strings.Builder
	sb.Grow(SCREEN_SIZE + SCREEN_HEIGHT)
	for y := 0; y < SCREEN_HEIGHT; y++ {
		for x := 0; x < SCREEN_WIDTH; x++ {
			if pixels[y*SCREEN_WIDTH+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
