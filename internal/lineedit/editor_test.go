package lineedit

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"
)

var commands = []string{"send", "set-mode", "set-baud"}

func commandPreprocessor(buf Buffer, _ int) Processed {
	return Processed{Buffer: buf, Candidates: Complete(commands, buf.Concat()).Suffixes}
}

func TestEditor_TabAcceptsFirstCandidate(t *testing.T) {
	term := newFakeTerm(keys(typed("se"), key(KeyTab), key(KeyEnter))...)
	rec := &recorder{}
	ed := NewBuilder[string]("> ").
		Terminal(term).
		Preprocessor(commandPreprocessor).
		Renderer(rec.render).
		Build()

	got, err := ed.Prompt()
	if err != nil {
		t.Fatal(err)
	}
	if got != "send" {
		t.Fatalf("got %q want send", got)
	}
	if f := rec.last(); f.cursor != 4 {
		t.Fatalf("cursor = %d want 4", f.cursor)
	}
	if !strings.Contains(term.out.String(), "[nd, t-mode, t-baud]") {
		t.Fatalf("preview missing from output %q", term.out.String())
	}
}

func TestEditor_TabWithoutCandidatesDoesNothing(t *testing.T) {
	term := newFakeTerm(keys(typed("xy"), key(KeyTab), key(KeyEnter))...)
	got, err := NewBuilder[string]("> ").Terminal(term).Preprocessor(commandPreprocessor).Build().Prompt()
	if err != nil || got != "xy" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestEditor_RightAtEndAcceptsCandidate(t *testing.T) {
	term := newFakeTerm(keys(typed("set-b"), key(KeyRight), key(KeyEnter))...)
	got, err := NewBuilder[string]("> ").Terminal(term).Preprocessor(commandPreprocessor).Build().Prompt()
	if err != nil || got != "set-baud" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestEditor_CtrlRightAtEndDoesNotAccept(t *testing.T) {
	term := newFakeTerm(keys(typed("set-b"), []Event{{Kind: EventKey, Key: KeyRight, Mod: ModCtrl}}, key(KeyEnter))...)
	got, err := NewBuilder[string]("> ").Terminal(term).Preprocessor(commandPreprocessor).Build().Prompt()
	if err != nil || got != "set-b" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestEditor_HistoryNavigation(t *testing.T) {
	term := newFakeTerm()
	rec := &recorder{}
	var ed *Editor[string]
	var indexes []int
	ed = NewBuilder[string]("> ").
		Terminal(term).
		Renderer(func(buf Buffer, cursor int) (string, int) {
			indexes = append(indexes, ed.History().Index())
			return rec.render(buf, cursor)
		}).
		Build()

	for _, line := range []string{"send 01", "send 02"} {
		term.feed(keys(typed(line), key(KeyEnter))...)
		if _, err := ed.Prompt(); err != nil {
			t.Fatal(err)
		}
	}

	term.feed(keys(key(KeyUp), key(KeyUp), key(KeyDown), key(KeyDown), key(KeyEnter))...)
	got, err := ed.Prompt()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("got %q want empty live buffer", got)
	}

	tail := rec.frames[len(rec.frames)-5:]
	var lines []string
	var cursors []int
	for _, f := range tail {
		lines = append(lines, f.line)
		cursors = append(cursors, f.cursor)
	}
	if want := []string{"", "send 02", "send 01", "send 02", ""}; strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("frames = %q want %q", lines, want)
	}
	if want := []int{0, 7, 7, 7, 0}; !slices.Equal(cursors, want) {
		t.Fatalf("cursors = %v want %v", cursors, want)
	}
	if want := []int{2, 1, 0, 1, 2}; !slices.Equal(indexes[len(indexes)-5:], want) {
		t.Fatalf("indexes = %v want %v", indexes[len(indexes)-5:], want)
	}
	if ed.History().Len() != 2 {
		t.Fatalf("history len = %d", ed.History().Len())
	}
}

func TestEditor_EditingRecalledLineKeepsEntry(t *testing.T) {
	term := newFakeTerm()
	ed := NewBuilder[string]("> ").Terminal(term).Build()
	term.feed(keys(typed("send 01"), key(KeyEnter))...)
	if _, err := ed.Prompt(); err != nil {
		t.Fatal(err)
	}

	term.feed(keys(key(KeyUp), key(KeyBackspace), typed("2"), key(KeyEnter))...)
	got, err := ed.Prompt()
	if err != nil {
		t.Fatal(err)
	}
	if got != "send 02" {
		t.Fatalf("got %q", got)
	}
	entries := ed.History().Entries()
	if len(entries) != 2 || entries[0].Concat() != "send 01" || entries[1].Concat() != "send 02" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestEditor_CtrlCInterruptsAndRestores(t *testing.T) {
	term := newFakeTerm(keys(typed("abc"), []Event{CtrlEvent('c')})...)
	ed := NewBuilder[string]("> ").Terminal(term).Build()
	_, err := ed.Prompt()
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v", err)
	}
	if term.raw || term.restores != 1 {
		t.Fatalf("terminal not restored: raw=%v restores=%d", term.raw, term.restores)
	}
	if ed.History().Len() != 0 {
		t.Fatalf("interrupted line stored in history")
	}
}

func TestEditor_FallbackErrorInterrupts(t *testing.T) {
	cause := errors.New("port closed")
	var seen []Event
	term := newFakeTerm(keys(key(KeyF5), key(KeyEscape))...)
	ed := NewBuilder[string]("> ").
		Terminal(term).
		FallbackHandler(func(ev Event) error {
			seen = append(seen, ev)
			if ev.Key == KeyEscape {
				return cause
			}
			return nil
		}).
		Build()

	_, err := ed.Prompt()
	if !errors.Is(err, ErrInterrupted) || !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("fallback saw %d events", len(seen))
	}
	if term.restores != 1 {
		t.Fatalf("restores = %d", term.restores)
	}
}

func TestEditor_AlreadyRawIsLeftAlone(t *testing.T) {
	term := newFakeTerm(keys(typed("x"), key(KeyEnter))...)
	term.raw = true
	if _, err := NewBuilder[string]("> ").Terminal(term).Build().Prompt(); err != nil {
		t.Fatal(err)
	}
	if term.makeRaws != 0 || term.restores != 0 || !term.raw {
		t.Fatalf("raw mode touched: makeRaws=%d restores=%d", term.makeRaws, term.restores)
	}
}

func TestEditor_RestoresAfterRendererPanic(t *testing.T) {
	term := newFakeTerm(keys(typed("x"), key(KeyEnter))...)
	ed := NewBuilder[string]("> ").
		Terminal(term).
		Renderer(func(buf Buffer, cursor int) (string, int) {
			if buf.Len() > 0 {
				panic("boom")
			}
			return "", 0
		}).
		Build()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic")
			}
		}()
		_, _ = ed.Prompt()
	}()
	if term.raw || term.restores != 1 {
		t.Fatalf("terminal left raw after panic")
	}
}

func TestEditor_ReadErrorIsReturned(t *testing.T) {
	term := newFakeTerm(typed("ab")...)
	_, err := NewBuilder[string]("> ").Terminal(term).Build().Prompt()
	if err == nil || errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v", err)
	}
	if term.restores != 1 {
		t.Fatalf("restores = %d", term.restores)
	}
}

func TestEditor_Paste(t *testing.T) {
	term := newFakeTerm(keys(typed("send "), []Event{CtrlEvent('v')}, key(KeyEnter))...)
	ed := NewBuilder[string]("> ").
		Terminal(term).
		Clipboard(func() (string, error) { return "01 02\n", nil }).
		Build()
	got, err := ed.Prompt()
	if err != nil || got != "send 01 02" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestEditor_PasteFailureIsIgnored(t *testing.T) {
	term := newFakeTerm(keys(typed("ab"), []Event{CtrlEvent('v')}, key(KeyEnter))...)
	ed := NewBuilder[string]("> ").
		Terminal(term).
		Clipboard(func() (string, error) { return "", errors.New("no clipboard") }).
		Build()
	got, err := ed.Prompt()
	if err != nil || got != "ab" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestEditor_WordMoves(t *testing.T) {
	ctrl := func(k Key) []Event { return []Event{{Kind: EventKey, Key: k, Mod: ModCtrl}} }
	term := newFakeTerm(keys(
		typed("send 01 02"),
		key(KeyHome),
		ctrl(KeyRight),
		ctrl(KeyRight),
		ctrl(KeyLeft),
		key(KeyEnter),
	)...)
	rec := &recorder{}
	if _, err := NewBuilder[string]("> ").Terminal(term).Renderer(rec.render).Build().Prompt(); err != nil {
		t.Fatal(err)
	}
	n := len(rec.frames)
	got := []int{rec.frames[n-3].cursor, rec.frames[n-2].cursor, rec.frames[n-1].cursor}
	want := []int{4, 7, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cursors = %v want %v", got, want)
		}
	}
}

func TestEditor_EditingKeys(t *testing.T) {
	term := newFakeTerm(keys(
		typed("abcd"),
		key(KeyLeft), key(KeyLeft),
		key(KeyBackspace), // removes b
		key(KeyDelete),    // removes c
		key(KeyEnd),
		typed("e"),
		key(KeyHome),
		key(KeyBackspace), // no-op at start
		key(KeyEnter),
	)...)
	got, err := NewBuilder[string]("> ").Terminal(term).Build().Prompt()
	if err != nil || got != "ade" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestEditor_FinalizerConvertsLine(t *testing.T) {
	term := newFakeTerm(keys(typed("115200"), key(KeyEnter))...)
	ed := NewBuilder[int]("baud: ").
		Terminal(term).
		Finalizer(func(line string) int {
			n, _ := strconv.Atoi(line)
			return n
		}).
		Build()
	got, err := ed.Prompt()
	if err != nil || got != 115200 {
		t.Fatalf("got %d, %v", got, err)
	}
}

func TestEditor_IdentityRoundTrip(t *testing.T) {
	term := newFakeTerm(keys(typed("héllo wörld"), key(KeyEnter))...)
	got, err := NewBuilder[string]("> ").Terminal(term).Build().Prompt()
	if err != nil || got != "héllo wörld" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestEditor_EscapeMergeKeepsCursorColumn(t *testing.T) {
	term := newFakeTerm(keys(typed(`\1b`), key(KeyEnter))...)
	var cursors []int
	render := func(buf Buffer, cursor int) (string, int) {
		cursors = append(cursors, cursor)
		budget := NewColumnBudget(cursor)
		var sb strings.Builder
		for _, tok := range buf {
			display := tok
			if tok == `\1b` {
				display = "[ESC]"
			}
			sb.WriteString(display)
			budget.Token(display)
		}
		return sb.String(), budget.Column()
	}
	got, err := NewBuilder[string]("> ").
		Terminal(term).
		Preprocessor(mergeEscapes).
		Renderer(render).
		Build().
		Prompt()
	if err != nil || got != `\1b` {
		t.Fatalf("got %q, %v", got, err)
	}
	if last := cursors[len(cursors)-1]; last != 1 {
		t.Fatalf("cursor = %d want 1", last)
	}
	if !strings.HasSuffix(term.out.String(), "> [ESC]\x1b[0m\x1b[8G\r\n") {
		t.Fatalf("output = %q", term.out.String())
	}
}

func TestEditor_InitialFrameShowsPrompt(t *testing.T) {
	term := newFakeTerm(key(KeyEnter)...)
	if _, err := NewBuilder[string]("port: ").Terminal(term).Build().Prompt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(term.out.String(), "\r\x1b[2Kport: ") {
		t.Fatalf("output = %q", term.out.String())
	}
}

func TestEditor_SetPromptAndClearHistory(t *testing.T) {
	term := newFakeTerm(keys(typed("a"), key(KeyEnter))...)
	ed := NewBuilder[string]("> ").Terminal(term).Build()
	if _, err := ed.Prompt(); err != nil {
		t.Fatal(err)
	}
	ed.SetPrompt("$ ")
	ed.ClearHistory()
	term.out.Reset()
	term.feed(key(KeyEnter)...)
	if _, err := ed.Prompt(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(term.out.String(), "$ ") {
		t.Fatalf("prompt not updated: %q", term.out.String())
	}
	if ed.History().Len() != 0 {
		t.Fatalf("history not cleared")
	}
}
