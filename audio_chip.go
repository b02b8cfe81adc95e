// audio_chip.go - Square-wave beeper for OctoEngine

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

import "sync/atomic"

// SoundChip is the machine's only audio voice: a fixed-frequency square
// wave gated by the sound timer. The host sets the gate once per frame;
// the audio backend pulls samples from its own goroutine, so the gate is
// atomic and ReadSample itself takes no locks.
type SoundChip struct {
	beeping atomic.Bool
	phase   float64
	output  AudioOutput
}

func NewSoundChip(backend int) (*SoundChip, error) {
	chip := &SoundChip{}
	output, err := NewAudioOutput(backend, SAMPLE_RATE, chip)
	if err != nil {
		return nil, err
	}
	chip.output = output
	return chip, nil
}

// SetBeeping opens or closes the tone gate.
func (chip *SoundChip) SetBeeping(on bool) {
	chip.beeping.Store(on)
}

func (chip *SoundChip) IsBeeping() bool {
	return chip.beeping.Load()
}

// ReadSample produces the next output sample. Called only from the audio
// backend's pull goroutine. The phase resets while the gate is closed so
// every beep starts at the same point in the waveform.
func (chip *SoundChip) ReadSample() float32 {
	if !chip.beeping.Load() {
		chip.phase = 0
		return 0
	}
	chip.phase += BEEP_FREQUENCY / SAMPLE_RATE
	if chip.phase >= 1 {
		chip.phase -= 1
	}
	if chip.phase < 0.5 {
		return BEEP_VOLUME
	}
	return -BEEP_VOLUME
}

func (chip *SoundChip) Start() {
	chip.output.Start()
}

func (chip *SoundChip) Stop() {
	chip.output.Stop()
}

func (chip *SoundChip) Close() {
	chip.output.Close()
}

func (chip *SoundChip) IsStarted() bool {
	return chip.output.IsStarted()
}
