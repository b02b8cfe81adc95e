// media_loader.go - ROM image loading for OctoEngine

package main

import (
	"fmt"
	"os"
)

// LoadROMFile reads a program image from disk and validates that it fits
// the machine. The image is raw big-endian CHIP-8 code; no container
// format exists, so the only sanity checks possible are emptiness and
// size.
func LoadROMFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM %q: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ROM %q is empty", path)
	}
	if len(data) > MAX_ROM_SIZE {
		return nil, &RomTooLargeError{Size: len(data), Max: MAX_ROM_SIZE}
	}
	return data, nil
}
