// video_backend_headless.go - No-op video backend for tests and benchmarks

package main

import "sync/atomic"

type HeadlessVideoOutput struct {
	started    bool
	config     DisplayConfig
	frameCount uint64
	done       chan struct{}
	keypad     [NUM_KEYS]bool
}

func NewHeadlessVideoOutput() (VideoOutput, error) {
	return &HeadlessVideoOutput{
		config: DisplayConfig{
			Width:       SCREEN_WIDTH,
			Height:      SCREEN_HEIGHT,
			Scale:       1,
			RefreshRate: DEFAULT_FRAME_RATE,
		},
		done: make(chan struct{}),
	}, nil
}

func (h *HeadlessVideoOutput) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessVideoOutput) Stop() error {
	h.started = false
	return nil
}

func (h *HeadlessVideoOutput) Close() error {
	h.started = false
	return nil
}

func (h *HeadlessVideoOutput) IsStarted() bool {
	return h.started
}

func (h *HeadlessVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	h.config = config
	return nil
}

func (h *HeadlessVideoOutput) GetDisplayConfig() DisplayConfig {
	return h.config
}

func (h *HeadlessVideoOutput) UpdateFrame(buffer []byte) error {
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *HeadlessVideoOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&h.frameCount)
}

func (h *HeadlessVideoOutput) Done() <-chan struct{} {
	return h.done
}

// SetKeypad lets tests script keypad input.
func (h *HeadlessVideoOutput) SetKeypad(keypad [NUM_KEYS]bool) {
	h.keypad = keypad
}

func (h *HeadlessVideoOutput) KeypadState() [NUM_KEYS]bool {
	return h.keypad
}
