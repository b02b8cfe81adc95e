// video_backend_terminal.go - ANSI truecolor terminal backend for OctoEngine

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Terminals report key presses as bytes with no release events, so a key
// is treated as held for a short window after its byte arrives.
const terminalKeyHold = 120 * time.Millisecond

// terminalKeypadMap binds the 1234/QWER/ASDF/ZXCV block to the hex
// keypad, matching the windowed backend.
var terminalKeypadMap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// TerminalOutput renders the display into an ANSI terminal, two pixels
// per character cell using the upper-half-block glyph with truecolor
// foreground and background. Input comes from raw-mode stdin. Only
// instantiated in main.go for interactive use, never in tests.
type TerminalOutput struct {
	mu       sync.RWMutex
	running  bool
	config   DisplayConfig
	keyTimes [NUM_KEYS]time.Time

	stopCh       chan struct{}
	done         chan struct{}
	readerDone   chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewTerminalOutput() (VideoOutput, error) {
	return &TerminalOutput{
		config: DisplayConfig{
			Width:       SCREEN_WIDTH,
			Height:      SCREEN_HEIGHT,
			Scale:       1,
			RefreshRate: DEFAULT_FRAME_RATE,
		},
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}, nil
}

// Start puts stdin into raw non-blocking mode and begins reading key
// bytes in a goroutine. Call Stop to restore the terminal.
func (to *TerminalOutput) Start() error {
	to.mu.Lock()
	defer to.mu.Unlock()
	if to.running {
		return nil
	}
	to.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(to.fd)
	if err != nil {
		return &VideoError{Operation: "start", Details: "failed to set raw mode", Err: err}
	}
	to.oldTermState = oldState

	if err := syscall.SetNonblock(to.fd, true); err != nil {
		_ = term.Restore(to.fd, to.oldTermState)
		to.oldTermState = nil
		return &VideoError{Operation: "start", Details: "failed to set nonblocking stdin", Err: err}
	}
	to.nonblockSet = true

	// Alternate screen, hidden cursor. Restored on Stop.
	fmt.Print("\x1B[?1049h\x1B[?25l\x1B[2J")

	to.running = true
	go to.readKeys()
	return nil
}

func (to *TerminalOutput) readKeys() {
	defer close(to.readerDone)
	buf := make([]byte, 1)

	for {
		select {
		case <-to.stopCh:
			return
		default:
		}

		n, err := syscall.Read(to.fd, buf)
		if n > 0 {
			b := buf[0]
			// ESC or Ctrl+C ends the session; raw mode swallows the
			// usual signal delivery.
			if b == 0x1B || b == 0x03 {
				to.signalDone()
				return
			}
			if pad, ok := terminalKeypadMap[b|0x20]; ok {
				to.mu.Lock()
				to.keyTimes[pad] = time.Now()
				to.mu.Unlock()
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

func (to *TerminalOutput) signalDone() {
	select {
	case <-to.done:
	default:
		close(to.done)
	}
}

// Stop restores the terminal state and stops the input reader.
func (to *TerminalOutput) Stop() error {
	to.stopped.Do(func() {
		close(to.stopCh)
	})
	<-to.readerDone

	to.mu.Lock()
	defer to.mu.Unlock()
	if !to.running {
		return nil
	}
	to.running = false

	fmt.Print("\x1B[?25h\x1B[?1049l")
	if to.nonblockSet {
		_ = syscall.SetNonblock(to.fd, false)
		to.nonblockSet = false
	}
	if to.oldTermState != nil {
		_ = term.Restore(to.fd, to.oldTermState)
		to.oldTermState = nil
	}
	to.signalDone()
	return nil
}

func (to *TerminalOutput) Close() error {
	return to.Stop()
}

func (to *TerminalOutput) IsStarted() bool {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.running
}

func (to *TerminalOutput) Done() <-chan struct{} {
	return to.done
}

func (to *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	to.mu.Lock()
	defer to.mu.Unlock()
	if config.RefreshRate > 0 {
		to.config.RefreshRate = config.RefreshRate
	}
	if config.Title != "" {
		to.config.Title = config.Title
	}
	return nil
}

func (to *TerminalOutput) GetDisplayConfig() DisplayConfig {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.config
}

// KeypadState reports every key whose byte arrived within the hold
// window as currently pressed.
func (to *TerminalOutput) KeypadState() [NUM_KEYS]bool {
	to.mu.RLock()
	defer to.mu.RUnlock()
	var keypad [NUM_KEYS]bool
	now := time.Now()
	for k := 0; k < NUM_KEYS; k++ {
		if !to.keyTimes[k].IsZero() && now.Sub(to.keyTimes[k]) < terminalKeyHold {
			keypad[k] = true
		}
	}
	return keypad
}

// UpdateFrame repaints the whole display. Each character cell encodes a
// vertical pixel pair: foreground colors the upper half block, background
// the lower.
func (to *TerminalOutput) UpdateFrame(buffer []byte) error {
	if len(buffer) < SCREEN_SIZE*4 {
		return &VideoError{
			Operation: "frame update",
			Details:   fmt.Sprintf("buffer too small: %d bytes", len(buffer)),
		}
	}

	var sb strings.Builder
	sb.Grow(SCREEN_SIZE * 8)
	sb.WriteString("\x1B[H")

	for y := 0; y < SCREEN_HEIGHT; y += 2 {
		for x := 0; x < SCREEN_WIDTH; x++ {
			top := (y*SCREEN_WIDTH + x) * 4
			bottom := ((y+1)*SCREEN_WIDTH + x) * 4
			fmt.Fprintf(&sb, "\x1B[38;2;%d;%d;%dm\x1B[48;2;%d;%d;%dm▀",
				buffer[top], buffer[top+1], buffer[top+2],
				buffer[bottom], buffer[bottom+1], buffer[bottom+2])
		}
		sb.WriteString("\x1B[0m\r\n")
	}

	fmt.Print(sb.String())
	return nil
}
