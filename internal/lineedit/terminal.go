package lineedit

import (
	"fmt"
	"io"
	"os"
	"strconv"

	colorable "github.com/mattn/go-colorable"
	"golang.org/x/term"
)

// Terminal is everything the editor needs from the user's terminal.
type Terminal interface {
	io.Writer
	// ReadEvent blocks until the next input event.
	ReadEvent() (Event, error)
	// Width reports the current number of columns.
	Width() int
	// MakeRaw puts the terminal in raw mode unless it already is. The returned
	// func undoes only what this call changed.
	MakeRaw() (restore func() error, err error)
}

const defaultWidth = 80

// StdTerminal reads key events from a tty and writes frames to an
// ANSI-capable writer.
type StdTerminal struct {
	in      *os.File
	out     io.Writer
	pending []Event
	partial []byte
	buf     []byte
}

var _ Terminal = (*StdTerminal)(nil)

// NewStdTerminal uses stdin for input and a colorable stdout for output.
func NewStdTerminal() *StdTerminal {
	return NewTerminal(os.Stdin, colorable.NewColorableStdout())
}

func NewTerminal(in *os.File, out io.Writer) *StdTerminal {
	return &StdTerminal{in: in, out: out, buf: make([]byte, 1024)}
}

func (t *StdTerminal) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t *StdTerminal) ReadEvent() (Event, error) {
	for len(t.pending) == 0 {
		n, err := t.in.Read(t.buf)
		if err != nil {
			return Event{}, err
		}
		if n == 0 {
			continue
		}
		chunk := append(t.partial, t.buf[:n]...)
		t.pending, t.partial = DecodeEvents(chunk)
	}
	ev := t.pending[0]
	t.pending = t.pending[1:]
	return ev, nil
}

// Width falls back to $COLUMNS and then 80 when the size cannot be queried.
func (t *StdTerminal) Width() int {
	if w, _, err := term.GetSize(int(t.in.Fd())); err == nil && w > 0 {
		return w
	}
	if f, ok := t.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return defaultWidth
}

func (t *StdTerminal) MakeRaw() (func() error, error) {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	if isRaw(fd) {
		return func() error { return nil }, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("make raw: %w", err)
	}
	return func() error { return term.Restore(fd, state) }, nil
}
