package present

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard hands out exclusive leases on a clipboard
type Clipboard interface {
	Acquire() (Lease, error)
}

// Lease is exclusive access to a clipboard until Release
type Lease interface {
	Write(text string) error
	Release() error
}

// ErrUnsupported is returned when no clipboard mechanism is available
var ErrUnsupported = errors.New("clipboard not supported on this system")

// Backend names accepted by NewClipboard
const (
	BackendAuto   = "auto"
	BackendSystem = "system"
	BackendOSC52  = "osc52"
)

// NewClipboard builds the clipboard for a configured backend. out receives
// OSC 52 sequences and is normally the controlling terminal.
func NewClipboard(backend string, out io.Writer) (Clipboard, error) {
	switch backend {
	case BackendSystem:
		return NewSystemClipboard(), nil
	case BackendOSC52:
		return NewOSC52Clipboard(out), nil
	case BackendAuto, "":
		return &fallbackClipboard{
			primary:  NewSystemClipboard(),
			fallback: NewOSC52Clipboard(out),
		}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}

// exclusive serializes leases on one clipboard
type exclusive struct {
	mu sync.Mutex
}

type lease struct {
	release func()
	write   func(string) error
	done    bool
}

func (l *lease) Write(text string) error {
	if l.done {
		return errors.New("clipboard lease already released")
	}
	return l.write(text)
}

func (l *lease) Release() error {
	if l.done {
		return nil
	}
	l.done = true
	l.release()
	return nil
}

// SystemClipboard uses the platform clipboard (pbcopy, xclip, wl-copy, ...)
type SystemClipboard struct {
	exclusive
	writeAll    func(string) error
	unsupported func() bool
}

// NewSystemClipboard returns the platform clipboard
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{
		writeAll:    clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// Acquire locks the clipboard for one write
func (c *SystemClipboard) Acquire() (Lease, error) {
	if c.unsupported() {
		return nil, ErrUnsupported
	}
	c.mu.Lock()
	return &lease{release: c.mu.Unlock, write: c.writeAll}, nil
}

// OSC52Clipboard asks the terminal emulator to set the clipboard. It works
// over SSH as long as the terminal honours OSC 52.
type OSC52Clipboard struct {
	exclusive
	out    io.Writer
	getenv func(string) string
}

// NewOSC52Clipboard writes escape sequences to out
func NewOSC52Clipboard(out io.Writer) *OSC52Clipboard {
	return &OSC52Clipboard{out: out, getenv: os.Getenv}
}

// Acquire locks the terminal output for one sequence
func (c *OSC52Clipboard) Acquire() (Lease, error) {
	if c.out == nil {
		return nil, ErrUnsupported
	}
	c.mu.Lock()
	return &lease{release: c.mu.Unlock, write: c.write}, nil
}

func (c *OSC52Clipboard) write(text string) error {
	seq := osc52.New(text)
	switch {
	case c.getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(c.getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(c.out)
	return err
}

// fallbackClipboard uses primary and switches to fallback when primary
// cannot be acquired
type fallbackClipboard struct {
	primary  Clipboard
	fallback Clipboard
}

func (c *fallbackClipboard) Acquire() (Lease, error) {
	l, err := c.primary.Acquire()
	if err == nil {
		return l, nil
	}
	if c.fallback == nil {
		return nil, err
	}
	return c.fallback.Acquire()
}
