// audio_interface.go - Audio output interface for OctoEngine

package main

import "fmt"

// AudioError provides detailed error context for audio operations
type AudioError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *AudioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Operation, e.Details)
}

// AudioOutput defines the minimal interface that backends must implement
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// Predefined audio backend types
const (
	AUDIO_BACKEND_OTO      = iota // Oto v3 cross-platform backend
	AUDIO_BACKEND_HEADLESS        // Silent backend for tests and benchmarks
)

// NewAudioOutput creates a new audio output instance using the specified backend
func NewAudioOutput(backend int, sampleRate int, chip *SoundChip) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(sampleRate)
		if err != nil {
			return nil, &AudioError{Operation: "backend creation", Details: "oto context", Err: err}
		}
		player.SetupPlayer(chip)
		return player, nil
	case AUDIO_BACKEND_HEADLESS:
		return NewHeadlessAudioOutput(chip), nil
	}
	return nil, &AudioError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}

// HeadlessAudioOutput discards samples. It still drains the chip so that
// timing-sensitive tests observe the same sample consumption as a real
// backend would produce.
type HeadlessAudioOutput struct {
	started bool
	chip    *SoundChip
}

func NewHeadlessAudioOutput(chip *SoundChip) *HeadlessAudioOutput {
	return &HeadlessAudioOutput{chip: chip}
}

func (h *HeadlessAudioOutput) Start() {
	h.started = true
}

func (h *HeadlessAudioOutput) Stop() {
	h.started = false
}

func (h *HeadlessAudioOutput) Close() {
	h.started = false
}

func (h *HeadlessAudioOutput) IsStarted() bool {
	return h.started
}
