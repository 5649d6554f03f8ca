package lineedit

import (
	"bytes"
	"io"
)

// fakeTerm replays scripted events and records everything written.
type fakeTerm struct {
	events   []Event
	out      bytes.Buffer
	width    int
	raw      bool
	makeRaws int
	restores int
}

func newFakeTerm(events ...Event) *fakeTerm {
	return &fakeTerm{events: events, width: 80}
}

func (f *fakeTerm) feed(events ...Event) { f.events = append(f.events, events...) }

func (f *fakeTerm) Write(p []byte) (int, error) { return f.out.Write(p) }

func (f *fakeTerm) ReadEvent() (Event, error) {
	if len(f.events) == 0 {
		return Event{}, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeTerm) Width() int { return f.width }

func (f *fakeTerm) MakeRaw() (func() error, error) {
	if f.raw {
		return func() error { return nil }, nil
	}
	f.makeRaws++
	f.raw = true
	return func() error {
		f.restores++
		f.raw = false
		return nil
	}, nil
}

func typed(s string) []Event {
	var evs []Event
	for _, r := range s {
		evs = append(evs, RuneEvent(r))
	}
	return evs
}

func keys(groups ...[]Event) []Event {
	var out []Event
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func key(k Key) []Event { return []Event{KeyEvent(k)} }

type frame struct {
	line   string
	tokens int
	cursor int
}

// recorder wraps PlainRenderer and keeps every frame it was asked to draw.
type recorder struct{ frames []frame }

func (r *recorder) render(buf Buffer, cursor int) (string, int) {
	r.frames = append(r.frames, frame{line: buf.Concat(), tokens: len(buf), cursor: cursor})
	return PlainRenderer(buf, cursor)
}

func (r *recorder) last() frame { return r.frames[len(r.frames)-1] }

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// mergeEscapes folds `\XX` runs into one token.
func mergeEscapes(buf Buffer, _ int) Processed {
	s := buf.Concat()
	var out Buffer
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+3 <= len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			out = append(out, s[i:i+3])
			i += 3
			continue
		}
		out = append(out, s[i:i+1])
		i++
	}
	return Processed{Buffer: out}
}
