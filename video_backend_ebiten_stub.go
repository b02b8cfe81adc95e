//go:build headless

// video_backend_ebiten_stub.go - Headless stand-in for the Ebiten backend

package main

func NewEbitenOutput() (VideoOutput, error) {
	return NewHeadlessVideoOutput()
}
