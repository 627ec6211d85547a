package ui

import (
	"io"
	"os"
	"sync"
)

// Terminal is the program's output file with serialized writes. The
// renderer and out-of-band escape sequences (OSC 52 clipboard) share it, so
// a sequence always lands between two frames instead of inside one.
type Terminal struct {
	*os.File
	mu sync.Mutex
}

// NewTerminal wraps f, normally os.Stdout
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{File: f}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.File.Write(p)
}

func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

var _ io.StringWriter = (*Terminal)(nil)
