package lineedit

import (
	"fmt"
	"unicode/utf8"
)

// Key identifies a keyboard key. KeyRune carries its character in Event.Rune.
type Key int

const (
	KeyUnknown Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyUnknown: "Unknown", KeyRune: "Rune", KeyEnter: "Enter", KeyTab: "Tab",
	KeyBackTab: "BackTab", KeyBackspace: "Backspace", KeyDelete: "Delete",
	KeyInsert: "Insert", KeyEscape: "Escape", KeyLeft: "Left", KeyRight: "Right",
	KeyUp: "Up", KeyDown: "Down", KeyHome: "Home", KeyEnd: "End",
	KeyPageUp: "PageUp", KeyPageDown: "PageDown",
}

func (k Key) String() string {
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if s, ok := keyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
)

// EventKind tags the variant stored in an Event.
type EventKind int

const (
	EventKey EventKind = iota
)

// Event is a single terminal input event.
type Event struct {
	Kind EventKind
	Key  Key
	Rune rune
	Mod  Modifier
	// Raw holds the bytes the event was decoded from, if any.
	Raw []byte
}

// KeyEvent builds a key event without modifiers.
func KeyEvent(k Key) Event { return Event{Kind: EventKey, Key: k} }

// RuneEvent builds a printable character event.
func RuneEvent(r rune) Event { return Event{Kind: EventKey, Key: KeyRune, Rune: r} }

// CtrlEvent builds a Ctrl+<letter> event.
func CtrlEvent(r rune) Event { return Event{Kind: EventKey, Key: KeyRune, Rune: r, Mod: ModCtrl} }

func (e Event) String() string {
	prefix := ""
	if e.Mod&ModCtrl != 0 {
		prefix += "Ctrl+"
	}
	if e.Mod&ModAlt != 0 {
		prefix += "Alt+"
	}
	if e.Mod&ModShift != 0 {
		prefix += "Shift+"
	}
	if e.Key == KeyRune {
		return prefix + string(e.Rune)
	}
	return prefix + e.Key.String()
}

func (e Event) is(k Key, mod Modifier) bool {
	return e.Kind == EventKey && e.Key == k && e.Mod == mod
}

func (e Event) isCtrl(r rune) bool {
	return e.Kind == EventKey && e.Key == KeyRune && e.Mod == ModCtrl && e.Rune == r
}

// Printable reports whether the event inserts its rune into the buffer.
func (e Event) Printable() bool {
	return e.Kind == EventKey && e.Key == KeyRune && e.Mod&(ModCtrl|ModAlt) == 0 && e.Rune >= ' ' && e.Rune != 0x7f
}

// csiKeys maps the final byte of `ESC [ <params> <final>` sequences.
var csiKeys = map[byte]Key{
	'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft,
	'H': KeyHome, 'F': KeyEnd, 'Z': KeyBackTab,
	'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4,
}

// tildeKeys maps the numeric parameter of `ESC [ <n> ~` sequences.
var tildeKeys = map[int]Key{
	1: KeyHome, 2: KeyInsert, 3: KeyDelete, 4: KeyEnd, 5: KeyPageUp, 6: KeyPageDown,
	7: KeyHome, 8: KeyEnd, 15: KeyF5, 17: KeyF6, 18: KeyF7, 19: KeyF8, 20: KeyF9,
	21: KeyF10, 23: KeyF11, 24: KeyF12,
}

// ss3Keys maps `ESC O <final>` sequences.
var ss3Keys = map[byte]Key{
	'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft,
	'H': KeyHome, 'F': KeyEnd, 'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4,
}

// DecodeEvents splits one chunk read from a raw terminal into events.
// An incomplete trailing UTF-8 sequence or escape sequence is returned as rest
// so the caller can prepend it to the next read.
func DecodeEvents(b []byte) (events []Event, rest []byte) {
	for len(b) > 0 {
		ev, n := decodeOne(b)
		if n == 0 {
			return events, b
		}
		ev.Raw = append([]byte(nil), b[:n]...)
		events = append(events, ev)
		b = b[n:]
	}
	return events, nil
}

func decodeOne(b []byte) (Event, int) {
	c := b[0]
	switch {
	case c == 0x1b:
		return decodeEscape(b)
	case c == '\r' || c == '\n':
		return KeyEvent(KeyEnter), 1
	case c == '\t':
		return KeyEvent(KeyTab), 1
	case c == 0x7f || c == 0x08:
		return KeyEvent(KeyBackspace), 1
	case c == 0:
		return CtrlEvent(' '), 1
	case c < 0x20:
		// Ctrl+A .. Ctrl+Z, plus the few punctuation controls above 0x1a.
		return CtrlEvent(rune(c) + 'a' - 1), 1
	case c < utf8.RuneSelf:
		return RuneEvent(rune(c)), 1
	}
	if !utf8.FullRune(b) {
		return Event{}, 0
	}
	r, n := utf8.DecodeRune(b)
	return RuneEvent(r), n
}

func decodeEscape(b []byte) (Event, int) {
	if len(b) == 1 {
		return KeyEvent(KeyEscape), 1
	}
	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return Event{}, 0
		}
		if k, ok := ss3Keys[b[2]]; ok {
			return KeyEvent(k), 3
		}
		return KeyEvent(KeyEscape), 1
	case 0x1b:
		return KeyEvent(KeyEscape), 1
	}
	// ESC followed by a key is Alt+key.
	ev, n := decodeOne(b[1:])
	if n == 0 {
		return Event{}, 0
	}
	ev.Mod |= ModAlt
	return ev, n + 1
}

func decodeCSI(b []byte) (Event, int) {
	// Collect parameter bytes up to the final byte in 0x40..0x7e.
	end := 2
	for end < len(b) && (b[end] < 0x40 || b[end] > 0x7e) {
		end++
	}
	if end >= len(b) {
		// the final byte is still in flight
		return Event{}, 0
	}
	final := b[end]
	params := parseParams(b[2:end])
	n := end + 1

	var ev Event
	switch {
	case final == '~' && len(params) > 0:
		k, ok := tildeKeys[params[0]]
		if !ok {
			return Event{Kind: EventKey, Key: KeyUnknown}, n
		}
		ev = KeyEvent(k)
	default:
		k, ok := csiKeys[final]
		if !ok {
			return Event{Kind: EventKey, Key: KeyUnknown}, n
		}
		ev = KeyEvent(k)
	}
	// xterm modifier parameter: 1 + (shift|alt<<1|ctrl<<2)
	if len(params) >= 2 && params[1] > 1 {
		m := params[1] - 1
		if m&1 != 0 {
			ev.Mod |= ModShift
		}
		if m&2 != 0 {
			ev.Mod |= ModAlt
		}
		if m&4 != 0 {
			ev.Mod |= ModCtrl
		}
	}
	return ev, n
}

func parseParams(b []byte) []int {
	var out []int
	cur, has := 0, false
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			cur = cur*10 + int(c-'0')
			has = true
		case c == ';':
			out = append(out, cur)
			cur, has = 0, false
		}
	}
	if has || len(out) > 0 {
		out = append(out, cur)
	}
	return out
}
