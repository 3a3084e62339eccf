// Package term defines the terminal I/O surface the editor renders to,
// plus an ANSI implementation for real terminals. The editor only ever
// writes control sequences through this interface; it never emulates a
// terminal itself.
package term

import (
	"fmt"
	"io"

	xterm "golang.org/x/term"
)

// Terminal is the surface the prompt line is drawn onto.
type Terminal interface {
	// Write sends text, including ANSI control sequences, to the surface
	Write(text string) error

	// Clear clears the whole screen and homes the cursor
	Clear() error

	// Focus directs subsequent input to this surface. A no-op for plain
	// stdout terminals.
	Focus()
}

// ANSI control sequences used by the surface and the renderer.
const (
	SeqClearScreen = "\x1b[2J\x1b[H"
	SeqEraseToEnd  = "\x1b[K"
)

// ANSITerminal renders to any io.Writer speaking VT100, normally
// stdout.
type ANSITerminal struct {
	out io.Writer
}

// NewANSITerminal creates a terminal surface over out.
func NewANSITerminal(out io.Writer) *ANSITerminal {
	return &ANSITerminal{out: out}
}

// Write implements Terminal.
func (t *ANSITerminal) Write(text string) error {
	_, err := io.WriteString(t.out, text)
	return err
}

// Clear implements Terminal.
func (t *ANSITerminal) Clear() error {
	return t.Write(SeqClearScreen)
}

// Focus implements Terminal.
func (t *ANSITerminal) Focus() {}

// RawMode holds the saved terminal state while the REPL owns the tty.
type RawMode struct {
	fd    int
	state *xterm.State
}

// EnterRawMode switches the tty to raw mode and remembers the previous
// state for Restore.
func EnterRawMode(fd int) (*RawMode, error) {
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return &RawMode{fd: fd, state: state}, nil
}

// Restore puts the tty back into its saved state.
func (r *RawMode) Restore() error {
	if r == nil || r.state == nil {
		return nil
	}
	return xterm.Restore(r.fd, r.state)
}

// IsTerminal reports whether fd is attached to a tty.
func IsTerminal(fd int) bool {
	return xterm.IsTerminal(fd)
}
