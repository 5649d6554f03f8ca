package lineedit

import (
	"fmt"
	"io"
	"unicode"
)

// flow tells the prompt loop whether an event changed anything worth
// redrawing.
type flow int

const (
	flowRender flow = iota
	flowSkip
)

func (e *Editor[T]) dispatch(s *env, ev Event) flow {
	if ev.Kind != EventKey {
		return e.delegate(s, ev)
	}
	switch {
	case ev.isCtrl('c'):
		_, _ = io.WriteString(e.term, "\r\n")
		s.state = stateInterrupted
		s.err = ErrInterrupted
		return flowSkip

	case ev.Key == KeyEnter:
		_, _ = io.WriteString(e.term, "\r\n")
		e.history.Push(s.buffer)
		s.state = stateDone
		return flowSkip

	case ev.isCtrl('v'):
		return e.paste(s)

	case ev.Key == KeyBackspace:
		if s.cursor == 0 {
			return flowSkip
		}
		e.detach(s)
		s.buffer.Remove(s.cursor - 1)
		s.cursor--

	case ev.Key == KeyDelete:
		if s.cursor >= len(s.buffer) {
			return flowSkip
		}
		e.detach(s)
		s.buffer.Remove(s.cursor)

	case ev.Key == KeyLeft:
		if s.cursor == 0 {
			return flowSkip
		}
		if ev.Mod&ModCtrl != 0 {
			s.cursor = wordLeft(s.buffer, s.cursor)
		} else {
			s.cursor--
		}

	case ev.Key == KeyRight:
		if s.cursor >= len(s.buffer) {
			if ev.Mod&ModCtrl != 0 {
				return flowSkip
			}
			return e.accept(s)
		}
		if ev.Mod&ModCtrl != 0 {
			s.cursor = wordRight(s.buffer, s.cursor)
		} else {
			s.cursor++
		}

	case ev.Key == KeyHome:
		s.cursor = 0

	case ev.Key == KeyEnd:
		s.cursor = len(s.buffer)

	case ev.is(KeyTab, 0):
		return e.accept(s)

	case ev.Key == KeyUp:
		b, ok := e.history.Previous()
		if !ok {
			return flowSkip
		}
		s.buffer, s.cursor = b, len(b)

	case ev.Key == KeyDown:
		b, ok := e.history.Next()
		if !ok {
			return flowSkip
		}
		s.buffer, s.cursor = b, len(b)

	case ev.Printable():
		e.detach(s)
		s.buffer.Insert(s.cursor, string(ev.Rune))
		s.cursor++

	default:
		return e.delegate(s, ev)
	}
	return flowRender
}

func (e *Editor[T]) delegate(s *env, ev Event) flow {
	if err := e.fallback(ev); err != nil {
		s.state = stateInterrupted
		s.err = fmt.Errorf("%w: %w", ErrInterrupted, err)
		return flowSkip
	}
	return flowRender
}

// detach swaps a browsed history entry for a private copy before an edit.
func (e *Editor[T]) detach(s *env) {
	if !e.history.Browsing() {
		return
	}
	col := s.buffer.Column(s.cursor)
	s.buffer = e.history.Detach()
	s.cursor = s.buffer.CursorAt(col)
}

// accept inserts the first candidate suffix at the cursor.
func (e *Editor[T]) accept(s *env) flow {
	if len(s.candidates) == 0 {
		return flowSkip
	}
	e.detach(s)
	for _, r := range s.candidates[0] {
		s.buffer.Insert(s.cursor, string(r))
		s.cursor++
	}
	return flowRender
}

// paste inserts the clipboard text. Control characters such as newlines are
// dropped; the editor holds a single line.
func (e *Editor[T]) paste(s *env) flow {
	text, err := e.clipboard()
	if err != nil || text == "" {
		return flowSkip
	}
	e.detach(s)
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		s.buffer.Insert(s.cursor, string(r))
		s.cursor++
	}
	return flowRender
}

func wordLeft(b Buffer, cursor int) int {
	i := cursor - 1
	for i > 0 && !isSpaceToken(b[i-1]) {
		i--
	}
	return i
}

func wordRight(b Buffer, cursor int) int {
	i := cursor + 1
	for i < len(b) && !isSpaceToken(b[i]) {
		i++
	}
	return i
}
