// cpu_chip8_test.go - CPU core execution tests

package main

import (
	"errors"
	"testing"
)

func newTestMachine() (*CPU, *Memory, *VideoChip) {
	mem := NewMemory()
	video := NewVideoChip()
	cpu := NewCPU(mem, video)
	return cpu, mem, video
}

func romFromWords(words ...uint16) []byte {
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func loadWords(t *testing.T, cpu *CPU, words ...uint16) {
	t.Helper()
	if err := cpu.LoadROM(romFromWords(words...)); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
}

func mustStep(t *testing.T, cpu *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := cpu.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
}

func TestCPU_PCAdvancesBeforeDispatch(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu, 0x6005) // LD V0, 0x05
	mustStep(t, cpu, 1)
	if cpu.PC != PROG_START+2 {
		t.Fatalf("expected PC=0x%03X, got 0x%03X", PROG_START+2, cpu.PC)
	}
	if cpu.V[0] != 0x05 {
		t.Fatalf("expected V0=0x05, got 0x%02X", cpu.V[0])
	}
}

func TestCPU_AddImmediate_WrapsWithoutCarryFlag(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x60FF, // LD V0, 0xFF
		0x6F05, // LD VF, 0x05 (sentinel: 7XNN must not touch VF)
		0x7001, // ADD V0, 0x01
	)
	mustStep(t, cpu, 3)
	if cpu.V[0] != 0x00 {
		t.Fatalf("expected V0 to wrap to 0x00, got 0x%02X", cpu.V[0])
	}
	if cpu.V[0xF] != 0x05 {
		t.Fatalf("ADD VX, NN modified VF: got 0x%02X", cpu.V[0xF])
	}
}

func TestCPU_AddRegister_SetsCarry(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x60C8, // LD V0, 200
		0x6164, // LD V1, 100
		0x8014, // ADD V0, V1
	)
	mustStep(t, cpu, 3)
	if cpu.V[0] != 44 { // (200+100)%256
		t.Fatalf("expected V0=44, got %d", cpu.V[0])
	}
	if cpu.V[0xF] != 1 {
		t.Fatalf("expected VF=1 on carry, got %d", cpu.V[0xF])
	}
}

func TestCPU_AddRegister_ClearsCarryWithoutOverflow(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x6F01, // LD VF, 1 (must be cleared by a non-overflowing add)
		0x6002, // LD V0, 2
		0x6103, // LD V1, 3
		0x8014, // ADD V0, V1
	)
	mustStep(t, cpu, 4)
	if cpu.V[0] != 5 || cpu.V[0xF] != 0 {
		t.Fatalf("expected V0=5 VF=0, got V0=%d VF=%d", cpu.V[0], cpu.V[0xF])
	}
}

func TestCPU_Sub_SetsNoBorrowFlag(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x600A, // LD V0, 10
		0x6103, // LD V1, 3
		0x8015, // SUB V0, V1
	)
	mustStep(t, cpu, 3)
	if cpu.V[0] != 7 || cpu.V[0xF] != 1 {
		t.Fatalf("expected V0=7 VF=1, got V0=%d VF=%d", cpu.V[0], cpu.V[0xF])
	}
}

func TestCPU_Sub_BorrowWraps(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x6003, // LD V0, 3
		0x610A, // LD V1, 10
		0x8015, // SUB V0, V1
	)
	mustStep(t, cpu, 3)
	if cpu.V[0] != 249 || cpu.V[0xF] != 0 {
		t.Fatalf("expected V0=249 VF=0, got V0=%d VF=%d", cpu.V[0], cpu.V[0xF])
	}
}

func TestCPU_Subn_ReversedOperands(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x6003, // LD V0, 3
		0x610A, // LD V1, 10
		0x8017, // SUBN V0, V1 -> V0 = V1 - V0
	)
	mustStep(t, cpu, 3)
	if cpu.V[0] != 7 || cpu.V[0xF] != 1 {
		t.Fatalf("expected V0=7 VF=1, got V0=%d VF=%d", cpu.V[0], cpu.V[0xF])
	}
}

func TestCPU_Shift_DefaultOperatesOnVX(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x6005, // LD V0, 0b0000_0101
		0x61FF, // LD V1, 0xFF (must be ignored by default)
		0x8016, // SHR V0, V1
	)
	mustStep(t, cpu, 3)
	if cpu.V[0] != 0x02 || cpu.V[0xF] != 1 {
		t.Fatalf("expected V0=0x02 VF=1, got V0=0x%02X VF=%d", cpu.V[0], cpu.V[0xF])
	}
}

func TestCPU_Shift_VYSourceWhenConfigured(t *testing.T) {
	cpu, _, _ := newTestMachine()
	cpu.SetShiftFromVY(true)
	loadWords(t, cpu,
		0x6000, // LD V0, 0
		0x6181, // LD V1, 0b1000_0001
		0x8016, // SHR V0, V1 -> V0 = V1 >> 1
		0x6280, // LD V2, 0b1000_0000
		0x831E, // SHL V3, V1 -> V3 = V1 << 1
	)
	mustStep(t, cpu, 3)
	if cpu.V[0] != 0x40 || cpu.V[0xF] != 1 {
		t.Fatalf("SHR from VY: expected V0=0x40 VF=1, got V0=0x%02X VF=%d", cpu.V[0], cpu.V[0xF])
	}
	mustStep(t, cpu, 2)
	if cpu.V[3] != 0x02 || cpu.V[0xF] != 1 {
		t.Fatalf("SHL from VY: expected V3=0x02 VF=1, got V3=0x%02X VF=%d", cpu.V[3], cpu.V[0xF])
	}
}

func TestCPU_SkipInstructions(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x6007, // LD V0, 7
		0x3007, // SE V0, 7 -> skip
		0x6AFF, // skipped
		0x4007, // SNE V0, 7 -> no skip
		0x6B01, // executed
	)
	mustStep(t, cpu, 4)
	if cpu.V[0xA] != 0 {
		t.Fatal("SE skipped-over instruction was executed")
	}
	if cpu.V[0xB] != 1 {
		t.Fatal("instruction after non-taken SNE was not executed")
	}
}

func TestCPU_CallAndReturn(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x2206, // 0x200: CALL 0x206
		0x6105, // 0x202: LD V1, 5 (after return)
		0x0000, // 0x204: padding
		0x6042, // 0x206: LD V0, 0x42
		0x00EE, // 0x208: RET
	)
	mustStep(t, cpu, 1)
	if cpu.PC != 0x206 || cpu.SP != 1 || cpu.Stack[0] != 0x202 {
		t.Fatalf("after CALL: PC=0x%03X SP=%d Stack[0]=0x%03X", cpu.PC, cpu.SP, cpu.Stack[0])
	}
	mustStep(t, cpu, 2) // LD V0 + RET
	if cpu.PC != 0x202 || cpu.SP != 0 {
		t.Fatalf("after RET: PC=0x%03X SP=%d", cpu.PC, cpu.SP)
	}
	mustStep(t, cpu, 1)
	if cpu.V[1] != 5 {
		t.Fatal("execution did not resume at the return address")
	}
}

func TestCPU_StackOverflowFaults(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu, 0x2200) // CALL 0x200: infinite self-call
	var err error
	for i := 0; i < STACK_DEPTH; i++ {
		if err = cpu.Step(); err != nil {
			t.Fatalf("call %d faulted early: %v", i+1, err)
		}
	}
	err = cpu.Step() // 17th call
	var fault *StackFaultError
	if !errors.As(err, &fault) {
		t.Fatalf("expected StackFaultError, got %v", err)
	}
	if fault.Kind != "overflow" {
		t.Fatalf("expected overflow fault, got %q", fault.Kind)
	}
}

func TestCPU_StackUnderflowFaults(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu, 0x00EE) // RET with empty stack
	err := cpu.Step()
	var fault *StackFaultError
	if !errors.As(err, &fault) {
		t.Fatalf("expected StackFaultError, got %v", err)
	}
	if fault.Kind != "underflow" {
		t.Fatalf("expected underflow fault, got %q", fault.Kind)
	}
}

func TestCPU_UnknownInstructionFaults(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu, 0xE000) // invalid EX variant
	err := cpu.Step()
	var unknown *UnknownInstructionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownInstructionError, got %v", err)
	}
	if unknown.Opcode != 0xE000 || unknown.PC != PROG_START {
		t.Fatalf("fault context wrong: opcode=0x%04X pc=0x%03X", unknown.Opcode, unknown.PC)
	}
}

func TestCPU_RunFrameHaltsOnFault(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu, 0x00EE)
	if err := cpu.RunFrame(); err == nil {
		t.Fatal("expected RunFrame to surface the fault")
	}
	if cpu.IsRunning() {
		t.Fatal("expected machine to halt after a fault")
	}
}

func TestCPU_JumpWithOffset(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x6004, // LD V0, 4
		0xB202, // JP V0, 0x202 -> 0x206
		0x0000, // 0x204
		0x6A01, // 0x206
	)
	mustStep(t, cpu, 3)
	if cpu.V[0xA] != 1 {
		t.Fatalf("expected jump to land at 0x206, PC=0x%03X", cpu.PC)
	}
}

func TestCPU_RandomUsesMask(t *testing.T) {
	cpu, _, _ := newTestMachine()
	cpu.randByte = func() byte { return 0xFF }
	loadWords(t, cpu, 0xC00F) // RND V0, 0x0F
	mustStep(t, cpu, 1)
	if cpu.V[0] != 0x0F {
		t.Fatalf("expected V0=0x0F, got 0x%02X", cpu.V[0])
	}
}

func TestCPU_Timers_TickOncePerFrame(t *testing.T) {
	cpu, _, _ := newTestMachine()
	cpu.DelayTimer = 30
	cpu.SoundTimer = 30
	for i := 0; i < 60; i++ {
		cpu.TickTimers()
	}
	if cpu.DelayTimer != 0 || cpu.SoundTimer != 0 {
		t.Fatalf("expected both timers at 0, got DT=%d ST=%d", cpu.DelayTimer, cpu.SoundTimer)
	}
	cpu.TickTimers() // must stay at zero, no wrap
	if cpu.DelayTimer != 0 || cpu.SoundTimer != 0 {
		t.Fatal("timers decremented below zero")
	}
}

func TestCPU_TimerRegisters(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x601E, // LD V0, 30
		0xF015, // LD DT, V0
		0xF018, // LD ST, V0
		0xF107, // LD V1, DT
	)
	mustStep(t, cpu, 4)
	if cpu.DelayTimer != 30 || cpu.SoundTimer != 30 {
		t.Fatalf("timers not loaded: DT=%d ST=%d", cpu.DelayTimer, cpu.SoundTimer)
	}
	if cpu.V[1] != 30 {
		t.Fatalf("expected V1=30 from LD VX, DT, got %d", cpu.V[1])
	}
}

func TestCPU_AddI_WrapsWithoutFlag(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0xAFFF, // LD I, 0xFFF
		0x6002, // LD V0, 2
		0x6F09, // LD VF, 9 (sentinel)
		0xF01E, // ADD I, V0
	)
	mustStep(t, cpu, 4)
	if cpu.I != 0x001 {
		t.Fatalf("expected I to wrap to 0x001, got 0x%03X", cpu.I)
	}
	if cpu.V[0xF] != 9 {
		t.Fatalf("ADD I, VX modified VF: got %d", cpu.V[0xF])
	}
}

func TestCPU_FontAddress(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x600A, // LD V0, 0xA
		0xF029, // LD F, V0
	)
	mustStep(t, cpu, 2)
	want := uint16(FONT_BASE + 0xA*FONT_GLYPH_SIZE)
	if cpu.I != want {
		t.Fatalf("expected I=0x%03X for glyph A, got 0x%03X", want, cpu.I)
	}
}

func TestCPU_BCD(t *testing.T) {
	cpu, mem, _ := newTestMachine()
	loadWords(t, cpu,
		0x60ED, // LD V0, 237
		0xA300, // LD I, 0x300
		0xF033, // BCD V0
	)
	mustStep(t, cpu, 3)
	if mem.Load(0x300) != 2 || mem.Load(0x301) != 3 || mem.Load(0x302) != 7 {
		t.Fatalf("BCD of 237 wrong: %d %d %d",
			mem.Load(0x300), mem.Load(0x301), mem.Load(0x302))
	}
}

func TestCPU_RegisterStoreLoadRoundTrip(t *testing.T) {
	cpu, _, _ := newTestMachine()
	loadWords(t, cpu,
		0x6011, // LD V0, 0x11
		0x6122, // LD V1, 0x22
		0x6233, // LD V2, 0x33
		0xA300, // LD I, 0x300
		0xF255, // LD [I], V2 (store V0..V2)
		0x6000, 0x6100, 0x6200, // clear V0..V2
		0xF265, // LD V2, [I] (load V0..V2)
	)
	mustStep(t, cpu, 9)
	if cpu.V[0] != 0x11 || cpu.V[1] != 0x22 || cpu.V[2] != 0x33 {
		t.Fatalf("round trip lost registers: %02X %02X %02X", cpu.V[0], cpu.V[1], cpu.V[2])
	}
	if cpu.I != 0x300 {
		t.Fatalf("I changed during store/load: 0x%03X", cpu.I)
	}
}

func TestCPU_Draw_SetsCollisionOnErase(t *testing.T) {
	cpu, mem, video := newTestMachine()
	loadWords(t, cpu,
		0xA300, // LD I, 0x300
		0x6005, // LD V0, 5
		0x6106, // LD V1, 6
		0xD011, // DRW V0, V1, 1
		0xD011, // DRW again: erases, collides
	)
	mem.Store(0x300, 0b11110000)
	mustStep(t, cpu, 4)
	if cpu.V[0xF] != 0 {
		t.Fatal("first draw reported a collision on a blank screen")
	}
	for bit := 0; bit < 4; bit++ {
		if !video.Pixel(5+bit, 6) {
			t.Fatalf("pixel (%d, 6) not set after draw", 5+bit)
		}
	}
	mustStep(t, cpu, 1)
	if cpu.V[0xF] != 1 {
		t.Fatal("second identical draw did not report a collision")
	}
	for bit := 0; bit < 4; bit++ {
		if video.Pixel(5+bit, 6) {
			t.Fatalf("pixel (%d, 6) still set after XOR erase", 5+bit)
		}
	}
}

func TestCPU_ClearScreen(t *testing.T) {
	cpu, mem, video := newTestMachine()
	loadWords(t, cpu,
		0xA300, // LD I, 0x300
		0xD001, // DRW V0, V0, 1
		0x00E0, // CLS
	)
	mem.Store(0x300, 0xFF)
	mustStep(t, cpu, 3)
	snapshot := video.Snapshot()
	for i, on := range snapshot {
		if on {
			t.Fatalf("pixel %d still lit after CLS", i)
		}
	}
}

func TestCPU_SkipOnKeyState(t *testing.T) {
	cpu, _, _ := newTestMachine()
	var keys [NUM_KEYS]bool
	keys[0x7] = true
	cpu.SetKeypad(keys)
	loadWords(t, cpu,
		0x6007, // LD V0, 7
		0xE09E, // SKP V0 -> taken
		0x6AFF, // skipped
		0xE0A1, // SKNP V0 -> not taken
		0x6B01, // executed
	)
	mustStep(t, cpu, 4)
	if cpu.V[0xA] != 0 {
		t.Fatal("SKP did not skip while key was held")
	}
	if cpu.V[0xB] != 1 {
		t.Fatal("SKNP skipped while key was held")
	}
}

func TestCPU_KeyWait_ConsumesFramesUntilFreshPress(t *testing.T) {
	cpu, _, _ := newTestMachine()
	cpu.SetCyclesPerFrame(10)
	// Key 5 held across two frames before the wait arms: no fresh edge,
	// must not satisfy it.
	var held [NUM_KEYS]bool
	held[0x5] = true
	cpu.SetKeypad(held)
	cpu.SetKeypad(held)
	loadWords(t, cpu,
		0xF30A, // LD V3, K
		0x6A01, // only after the wait resolves
	)
	if err := cpu.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if cpu.V[0xA] != 0 {
		t.Fatal("execution continued past an unresolved key wait")
	}

	// Same key still held: no fresh edge, still waiting.
	cpu.SetKeypad(held)
	if err := cpu.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if cpu.V[0xA] != 0 || !cpu.waitingKey {
		t.Fatal("held key satisfied the wait without a fresh press")
	}

	// Release, then press again: the edge resolves the wait.
	cpu.SetKeypad([NUM_KEYS]bool{})
	if err := cpu.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	var pressed [NUM_KEYS]bool
	pressed[0x5] = true
	cpu.SetKeypad(pressed)
	if err := cpu.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if err := cpu.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if cpu.V[3] != 0x5 {
		t.Fatalf("expected V3=0x5 from resolved key wait, got 0x%02X", cpu.V[3])
	}
	if cpu.V[0xA] != 1 {
		t.Fatal("execution did not resume after the key wait resolved")
	}
}

func TestCPU_EndToEnd_DrawGlyphLoop(t *testing.T) {
	cpu, _, video := newTestMachine()
	// Draw three rows of sprite data, then spin.
	rom := romFromWords(
		0xA20A, // LD I, 0x20A (sprite data below)
		0x6002, // LD V0, 2
		0x6103, // LD V1, 3
		0xD013, // DRW V0, V1, 3
		0x1208, // JP 0x208 (spin in place)
		0xF0A0, // 0x20A: sprite rows 0xF0, 0xA0
		0x4000, // 0x20C: sprite row 0x40
	)
	if err := cpu.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	cpu.SetCyclesPerFrame(20)
	if err := cpu.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	wantRows := []byte{0xF0, 0xA0, 0x40}
	for row, bits := range wantRows {
		for bit := 0; bit < SPRITE_BITS; bit++ {
			want := bits&(0x80>>bit) != 0
			got := video.Pixel(2+bit, 3+row)
			if got != want {
				t.Fatalf("pixel (%d, %d): got %v want %v", 2+bit, 3+row, got, want)
			}
		}
	}
	if cpu.V[0xF] != 0 {
		t.Fatal("draw onto a blank screen reported a collision")
	}
	if cpu.PC != 0x208 && cpu.PC != 0x20A {
		t.Fatalf("expected CPU spinning at 0x208, PC=0x%03X", cpu.PC)
	}
}

func TestCPU_Reset_PreservesROMAndConfig(t *testing.T) {
	cpu, mem, video := newTestMachine()
	cpu.SetShiftFromVY(true)
	cpu.SetCyclesPerFrame(42)
	loadWords(t, cpu,
		0x6005, // LD V0, 5
		0xA300, // LD I, 0x300
		0x2208, // CALL
	)
	mustStep(t, cpu, 2)
	resetAllComponents(cpu, mem, video, nil)
	if cpu.V[0] != 0 || cpu.I != 0 || cpu.PC != PROG_START || cpu.SP != 0 {
		t.Fatalf("CPU state not reset: V0=%d I=0x%03X PC=0x%03X SP=%d",
			cpu.V[0], cpu.I, cpu.PC, cpu.SP)
	}
	if !cpu.shiftFromVY || cpu.cyclesPerFrame != 42 {
		t.Fatal("reset clobbered configuration")
	}
	// ROM must still be in place: re-running the first instruction works.
	mustStep(t, cpu, 1)
	if cpu.V[0] != 5 {
		t.Fatal("ROM contents lost across reset")
	}
}
