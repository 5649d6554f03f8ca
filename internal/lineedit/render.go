package lineedit

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
)

const (
	ansiClearLine = "\x1b[2K"
	ansiDarkGrey  = "\x1b[90m"
	ansiReset     = "\x1b[0m"

	// previewReserve keeps room for " [", "]", the ellipsis and one spare
	// column so the frame never wraps.
	previewReserve  = 5
	previewMinWidth = 3
	previewEllipsis = ".."
)

// ColumnBudget converts a cursor expressed in tokens into a terminal column
// while a Renderer emits display forms that may be wider or narrower than
// the tokens they stand for. Each emitted token spends one unit of budget and
// adds its display width; once the budget is spent later tokens still render
// but no longer move the cursor.
type ColumnBudget struct {
	remaining int
	column    int
}

// NewColumnBudget starts a budget for a cursor sitting after tokens tokens.
func NewColumnBudget(tokens int) *ColumnBudget {
	return &ColumnBudget{remaining: tokens}
}

// Token accounts for one buffer token shown as display.
func (b *ColumnBudget) Token(display string) {
	if b.remaining <= 0 {
		return
	}
	b.remaining--
	b.column += ansi.PrintableRuneWidth(display)
}

// Text accounts for a run of single-rune tokens shown as themselves.
func (b *ColumnBudget) Text(s string) {
	for _, r := range s {
		if b.remaining <= 0 {
			return
		}
		b.remaining--
		b.column += runewidth.RuneWidth(r)
	}
}

func (b *ColumnBudget) Column() int    { return b.column }
func (b *ColumnBudget) Remaining() int { return b.remaining }

// PlainRenderer shows every token as itself.
func PlainRenderer(buf Buffer, cursor int) (string, int) {
	budget := NewColumnBudget(cursor)
	for _, tok := range buf {
		budget.Token(tok)
	}
	return buf.Concat(), budget.Column()
}

// Preview formats the candidate list for the room columns left on the line.
// It returns "" when there is nothing worth showing.
func Preview(candidates []string, room int) string {
	if len(candidates) == 0 {
		return ""
	}
	body := strings.Join(candidates, ", ")
	rest := room - previewReserve
	if rest < runewidth.StringWidth(body) {
		if rest < previewMinWidth {
			return ""
		}
		body = runewidth.Truncate(body, rest-1, "") + previewEllipsis
	}
	return "[" + body + "]"
}

// draw renders one frame: prompt, coloured buffer, candidate preview, then
// parks the terminal cursor on the renderer's column.
func (e *Editor[T]) draw(s *env) error {
	display, col := e.renderer(s.buffer.Clone(), s.cursor)
	promptWidth := ansi.PrintableRuneWidth(e.prompt)

	var sb strings.Builder
	sb.WriteString("\r")
	sb.WriteString(ansiClearLine)
	sb.WriteString(e.prompt)
	sb.WriteString(display)
	if len(s.candidates) > 0 {
		used := promptWidth + ansi.PrintableRuneWidth(display)
		if p := Preview(s.candidates, e.term.Width()-used); p != "" {
			sb.WriteString(ansiDarkGrey)
			sb.WriteString(" ")
			sb.WriteString(p)
		}
	}
	sb.WriteString(ansiReset)
	// CHA is 1-based.
	fmt.Fprintf(&sb, "\x1b[%dG", promptWidth+col+1)

	_, err := io.WriteString(e.term, sb.String())
	return err
}
