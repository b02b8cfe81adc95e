// video_chip.go - CHIP-8 display device: 64x32 monochrome XOR framebuffer

package main

import "sync"

// VideoChip models the CHIP-8 display: a 64x32 grid of monochrome pixels
// driven exclusively by XOR sprite drawing. The chip owns the logical
// framebuffer; backends read snapshots of it and never write back. All
// methods are safe for concurrent use, since the render backend samples
// the buffer from its own goroutine.
type VideoChip struct {
	mutex  sync.RWMutex
	pixels [SCREEN_SIZE]bool
	dirty  bool
}

func NewVideoChip() *VideoChip {
	return &VideoChip{dirty: true}
}

// Clear blanks the whole framebuffer.
func (v *VideoChip) Clear() {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.pixels = [SCREEN_SIZE]bool{}
	v.dirty = true
}

// DrawSprite XORs an 8-pixel-wide sprite onto the framebuffer with its
// top-left corner at (x, y). The origin wraps into the visible grid
// before drawing and each plotted pixel wraps independently, so sprites
// crossing an edge continue on the opposite side. Returns true when any
// lit pixel was turned off by the draw.
func (v *VideoChip) DrawSprite(x, y byte, rows []byte) bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	originX := int(x) % SCREEN_WIDTH
	originY := int(y) % SCREEN_HEIGHT
	collision := false

	for rowIdx, rowBits := range rows {
		py := (originY + rowIdx) % SCREEN_HEIGHT
		for bit := 0; bit < SPRITE_BITS; bit++ {
			if rowBits&(0x80>>bit) == 0 {
				continue
			}
			px := (originX + bit) % SCREEN_WIDTH
			idx := py*SCREEN_WIDTH + px
			if v.pixels[idx] {
				collision = true
			}
			v.pixels[idx] = !v.pixels[idx]
		}
	}

	v.dirty = true
	return collision
}

// Pixel reports the state of a single pixel. Coordinates wrap into the
// visible grid.
func (v *VideoChip) Pixel(x, y int) bool {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.pixels[(y%SCREEN_HEIGHT)*SCREEN_WIDTH+x%SCREEN_WIDTH]
}

// Snapshot copies the framebuffer, row-major.
func (v *VideoChip) Snapshot() [SCREEN_SIZE]bool {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.pixels
}

// ConsumeDirty reports whether the framebuffer changed since the last
// call and clears the flag, so backends can skip redundant redraws.
func (v *VideoChip) ConsumeDirty() bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	dirty := v.dirty
	v.dirty = false
	return dirty
}

// RenderRGBA rasterises the framebuffer into a 64x32 RGBA image using the
// engine palette. The destination must hold SCREEN_SIZE*4 bytes; backends
// scale it to the window on their side.
func (v *VideoChip) RenderRGBA(dst []byte) {
	v.mutex.RLock()
	defer v.mutex.RUnlock()

	for i, on := range v.pixels {
		o := i * 4
		if on {
			dst[o], dst[o+1], dst[o+2] = PIXEL_ON_R, PIXEL_ON_G, PIXEL_ON_B
		} else {
			dst[o], dst[o+1], dst[o+2] = PIXEL_OFF_R, PIXEL_OFF_G, PIXEL_OFF_B
		}
		dst[o+3] = 0xFF
	}
}
