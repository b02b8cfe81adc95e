// media_loader_test.go - ROM file loading tests

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadROMFile_ReadsImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.ch8")
	want := []byte{0x12, 0x00, 0xF0, 0x90}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	rom, err := LoadROMFile(path)
	if err != nil {
		t.Fatalf("LoadROMFile failed: %v", err)
	}
	if !bytes.Equal(rom, want) {
		t.Fatalf("ROM bytes = % X, want % X", rom, want)
	}
}

func TestLoadROMFile_MissingFile(t *testing.T) {
	_, err := LoadROMFile(filepath.Join(t.TempDir(), "nope.ch8"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadROMFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ch8")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := LoadROMFile(path)
	if err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestLoadROMFile_OversizeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.ch8")
	if err := os.WriteFile(path, make([]byte, MAX_ROM_SIZE+1), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := LoadROMFile(path)
	var romErr *RomTooLargeError
	if !errors.As(err, &romErr) {
		t.Fatalf("expected RomTooLargeError, got %v", err)
	}
	if romErr.Size != MAX_ROM_SIZE+1 || romErr.Max != MAX_ROM_SIZE {
		t.Fatalf("error context Size=%d Max=%d, want Size=%d Max=%d",
			romErr.Size, romErr.Max, MAX_ROM_SIZE+1, MAX_ROM_SIZE)
	}
}
