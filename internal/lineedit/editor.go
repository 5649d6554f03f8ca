package lineedit

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrInterrupted is returned by Prompt when the user pressed Ctrl-C or the
// fallback handler reported a failure.
var ErrInterrupted = errors.New("lineedit: interrupted")

// Processed is what a Preprocessor makes of the raw buffer.
type Processed struct {
	Buffer     Buffer
	Candidates []string
}

// Preprocessor re-derives the buffer (it may re-tokenize it) and the
// completion suffixes for the current input.
type Preprocessor func(buf Buffer, cursor int) Processed

// Renderer turns the buffer into a display string and the terminal column,
// relative to the end of the prompt, the cursor should sit on.
type Renderer func(buf Buffer, cursor int) (display string, column int)

// Finalizer converts the accepted line into the caller's result.
type Finalizer[T any] func(line string) T

// FallbackHandler receives the events the editor does not handle itself.
// Returning an error interrupts the prompt.
type FallbackHandler func(Event) error

// ClipboardReader returns the text pasted on Ctrl-V.
type ClipboardReader func() (string, error)

// IdentityPreprocessor keeps the buffer and offers no candidates.
func IdentityPreprocessor(buf Buffer, _ int) Processed { return Processed{Buffer: buf} }

func identityFinalizer[T any](line string) T {
	var zero T
	if v, ok := any(line).(T); ok {
		return v
	}
	return zero
}

func ignoreEvent(Event) error { return nil }

// Builder assembles an Editor. Hooks left unset fall back to identity
// behaviour.
type Builder[T any] struct {
	prompt       string
	preprocessor Preprocessor
	renderer     Renderer
	finalizer    Finalizer[T]
	fallback     FallbackHandler
	term         Terminal
	clipboard    ClipboardReader
	historySize  int
}

func NewBuilder[T any](prompt string) *Builder[T] {
	return &Builder[T]{prompt: prompt}
}

func (b *Builder[T]) Preprocessor(f Preprocessor) *Builder[T] {
	b.preprocessor = f
	return b
}

func (b *Builder[T]) Renderer(f Renderer) *Builder[T] {
	b.renderer = f
	return b
}

// Finalizer sets the conversion applied to the accepted line. Without one a
// string editor returns the line itself and any other T its zero value.
func (b *Builder[T]) Finalizer(f Finalizer[T]) *Builder[T] {
	b.finalizer = f
	return b
}

func (b *Builder[T]) FallbackHandler(f FallbackHandler) *Builder[T] {
	b.fallback = f
	return b
}

func (b *Builder[T]) Terminal(t Terminal) *Builder[T] {
	b.term = t
	return b
}

func (b *Builder[T]) Clipboard(f ClipboardReader) *Builder[T] {
	b.clipboard = f
	return b
}

// HistorySize bounds the number of remembered lines.
func (b *Builder[T]) HistorySize(n int) *Builder[T] {
	b.historySize = n
	return b
}

func (b *Builder[T]) Build() *Editor[T] {
	e := &Editor[T]{
		prompt:       b.prompt,
		preprocessor: b.preprocessor,
		renderer:     b.renderer,
		finalizer:    b.finalizer,
		fallback:     b.fallback,
		term:         b.term,
		clipboard:    b.clipboard,
		history:      NewHistory(b.historySize),
	}
	if e.preprocessor == nil {
		e.preprocessor = IdentityPreprocessor
	}
	if e.renderer == nil {
		e.renderer = PlainRenderer
	}
	if e.finalizer == nil {
		e.finalizer = identityFinalizer[T]
	}
	if e.fallback == nil {
		e.fallback = ignoreEvent
	}
	if e.term == nil {
		e.term = NewStdTerminal()
	}
	if e.clipboard == nil {
		e.clipboard = clipboard.ReadAll
	}
	return e
}

// Editor is a single-line editor. History survives across Prompt calls.
type Editor[T any] struct {
	prompt       string
	preprocessor Preprocessor
	renderer     Renderer
	finalizer    Finalizer[T]
	fallback     FallbackHandler
	term         Terminal
	clipboard    ClipboardReader
	history      *History
}

type state int

const (
	stateEditing state = iota
	stateDone
	stateInterrupted
)

// env is the per-Prompt editing state.
type env struct {
	buffer     Buffer
	cursor     int
	candidates []string
	state      state
	err        error
}

// Prompt reads one line. It returns the finalized line, or an error wrapping
// ErrInterrupted when the user gave up. Terminal failures are returned as is.
func (e *Editor[T]) Prompt() (result T, err error) {
	restore, err := e.term.MakeRaw()
	if err != nil {
		return result, fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = fmt.Errorf("restore terminal: %w", rerr)
		}
	}()

	s := &env{}
	if err := e.refresh(s); err != nil {
		return result, err
	}
	for s.state == stateEditing {
		ev, rerr := e.term.ReadEvent()
		if rerr != nil {
			return result, fmt.Errorf("read event: %w", rerr)
		}
		if e.dispatch(s, ev) == flowSkip || s.state != stateEditing {
			continue
		}
		if err := e.refresh(s); err != nil {
			return result, err
		}
	}
	if s.state == stateInterrupted {
		return result, s.err
	}
	return e.finalizer(s.buffer.Concat()), nil
}

// refresh runs the preprocessor, keeps the cursor on the same raw column and
// draws the frame.
func (e *Editor[T]) refresh(s *env) error {
	col := s.buffer.Column(s.cursor)
	p := e.preprocessor(s.buffer.Clone(), s.cursor)
	s.buffer = p.Buffer
	s.candidates = p.Candidates
	s.cursor = s.buffer.CursorAt(col)
	if err := e.draw(s); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

func (e *Editor[T]) History() *History { return e.history }

func (e *Editor[T]) ClearHistory() { e.history.Clear() }

func (e *Editor[T]) SetPrompt(prompt string) { e.prompt = prompt }
