// main.go - Main entry point for the OctoEngine Virtual Machine

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
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/retroenv/retrogolib/log"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;65;236;157m  ___   ____ _____  ___     _____ _   _   ____  ___  _   _  _____\033[0m\n\033[38;2;60;216;144m / _ \\ / ___|_   _|/ _ \\   | ____| \\ | | / ___||_ _|| \\ | || ____|\033[0m\n\033[38;2;55;196;131m| | | | |     | | | | | |  |  _| |  \\| || |  _  | | |  \\| ||  _|\033[0m\n\033[38;2;50;176;118m| |_| | |___  | | | |_| |  | |___| |\\  || |_| | | | | |\\  || |___\033[0m\n\033[38;2;45;156;105m \\___/ \\____| |_|  \\___/   |_____|_| \\_| \\____||___||_| \\_||_____|\033[0m")
	fmt.Println("\nA CHIP-8 virtual machine in the spirit of the 1970s home computers.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/OctoEngine")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

// ConfigError reports a machine configuration value outside its legal
// range. Raised before the machine starts, never during execution.
type ConfigError struct {
	Field    string
	Value    int
	Min, Max int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// MachineConfig carries everything the host loop needs to assemble a
// machine.
type MachineConfig struct {
	Backend     string
	Scale       int
	CyclesFrame int
	FrameRate   int
	ShiftFromVY bool
	Trace       bool
	Mute        bool
}

const (
	MIN_SCALE            = 1
	MAX_SCALE            = 32
	MIN_CYCLES_PER_FRAME = 1
	MAX_CYCLES_PER_FRAME = 100000
	MIN_FRAME_RATE       = 1
	MAX_FRAME_RATE       = 1000
)

// Validate checks every numeric field against its legal range.
func (c *MachineConfig) Validate() error {
	if c.Scale < MIN_SCALE || c.Scale > MAX_SCALE {
		return &ConfigError{Field: "scale", Value: c.Scale, Min: MIN_SCALE, Max: MAX_SCALE}
	}
	if c.CyclesFrame < MIN_CYCLES_PER_FRAME || c.CyclesFrame > MAX_CYCLES_PER_FRAME {
		return &ConfigError{Field: "cycles", Value: c.CyclesFrame, Min: MIN_CYCLES_PER_FRAME, Max: MAX_CYCLES_PER_FRAME}
	}
	if c.FrameRate < MIN_FRAME_RATE || c.FrameRate > MAX_FRAME_RATE {
		return &ConfigError{Field: "hz", Value: c.FrameRate, Min: MIN_FRAME_RATE, Max: MAX_FRAME_RATE}
	}
	return nil
}

func videoBackendFromName(name string) (int, error) {
	switch name {
	case "window":
		return VIDEO_BACKEND_EBITEN, nil
	case "terminal":
		return VIDEO_BACKEND_TERMINAL, nil
	case "headless":
		return VIDEO_BACKEND_HEADLESS, nil
	}
	return 0, fmt.Errorf("unknown video backend %q (want window, terminal, or headless)", name)
}

func main() {
	boilerPlate()

	var (
		config MachineConfig
		disasm bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&config.Backend, "backend", "window", "Video backend: window, terminal, or headless")
	flagSet.IntVar(&config.Scale, "scale", DEFAULT_SCALE, "Window scale factor")
	flagSet.IntVar(&config.CyclesFrame, "cycles", DEFAULT_CYCLES_PER_FRAME, "CPU instructions per frame")
	flagSet.IntVar(&config.FrameRate, "hz", DEFAULT_FRAME_RATE, "Frame and timer rate in Hz")
	flagSet.BoolVar(&config.ShiftFromVY, "shift-vy", false, "COSMAC shift behaviour: 8XY6/8XYE read VY")
	flagSet.BoolVar(&config.Trace, "trace", false, "Log every executed instruction")
	flagSet.BoolVar(&config.Mute, "mute", false, "Disable audio output")
	flagSet.BoolVar(&disasm, "disasm", false, "Disassemble the ROM and exit")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./octo_engine [-backend window|terminal|headless] [-scale N] [-cycles N] [-hz N] [-shift-vy] [-trace] [-mute] [-disasm] filename")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := log.DefaultConfig()
	if config.Trace {
		logCfg.Level = log.DebugLevel
	}
	logger := log.NewWithConfig(logCfg)

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	if err := config.Validate(); err != nil {
		logger.Fatal("Invalid configuration", log.Err(err))
	}

	rom, err := LoadROMFile(filename)
	if err != nil {
		logger.Fatal("Loading ROM failed", log.Err(err))
	}

	if disasm {
		fmt.Print(DisassembleROM(rom).Listing())
		return
	}

	if err := runMachine(&config, rom, logger); err != nil {
		logger.Fatal("Machine halted", log.Err(err))
	}
}

// runMachine assembles the machine from the configuration and drives it
// until the program faults, the display closes, or the process is
// interrupted.
func runMachine(config *MachineConfig, rom []byte, logger *log.Logger) error {
	mem := NewMemory()
	video := NewVideoChip()
	cpu := NewCPU(mem, video)
	cpu.SetCyclesPerFrame(config.CyclesFrame)
	cpu.SetShiftFromVY(config.ShiftFromVY)
	if config.Trace {
		cpu.SetMonitor(NewDebugMonitor(logger))
	}

	if err := cpu.LoadROM(rom); err != nil {
		return err
	}

	audioBackend := AUDIO_BACKEND_OTO
	if config.Mute {
		audioBackend = AUDIO_BACKEND_HEADLESS
	}
	soundChip, err := NewSoundChip(audioBackend)
	if err != nil {
		return err
	}
	defer soundChip.Close()

	videoBackend, err := videoBackendFromName(config.Backend)
	if err != nil {
		return err
	}
	out, err := NewVideoOutput(videoBackend)
	if err != nil {
		return err
	}
	if err := out.SetDisplayConfig(DisplayConfig{
		Scale:       config.Scale,
		RefreshRate: config.FrameRate,
		Title:       "Octo Engine (c) 2024 - 2026 Zayn Otley",
	}); err != nil {
		return err
	}
	if resettable, ok := out.(ResetCapable); ok {
		resettable.SetHardResetHandler(func() {
			resetAllComponents(cpu, mem, video, soundChip)
			logger.Info("Hard reset")
		})
	}
	if err := out.Start(); err != nil {
		return err
	}
	defer out.Close()
	soundChip.Start()

	keySource, _ := out.(KeypadCapable)
	frame := make([]byte, SCREEN_SIZE*4)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	ticker := time.NewTicker(time.Second / time.Duration(config.FrameRate))
	defer ticker.Stop()

	logger.Info("Machine running",
		log.String("backend", config.Backend),
		log.Hex("rom_size", uint16(len(rom))))

	for {
		select {
		case <-out.Done():
			return nil
		case <-interrupt:
			return nil
		case <-ticker.C:
		}

		if keySource != nil {
			cpu.SetKeypad(keySource.KeypadState())
		}
		if err := cpu.RunFrame(); err != nil {
			return err
		}
		cpu.TickTimers()
		soundChip.SetBeeping(cpu.SoundTimer > 0)

		if video.ConsumeDirty() {
			video.RenderRGBA(frame)
			if err := out.UpdateFrame(frame); err != nil {
				return err
			}
		}
	}
}
