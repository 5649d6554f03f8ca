package lineedit

import (
	"strings"
	"unicode/utf8"
)

// Buffer is the editable line: an ordered sequence of atomic tokens.
// A token is usually one rune, but a Preprocessor may merge several runes
// (for example the escape `\1b`) into a single token.
type Buffer []string

// NewBuffer splits s into one token per rune.
func NewBuffer(s string) Buffer {
	b := make(Buffer, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		b = append(b, string(r))
	}
	return b
}

func (b Buffer) Len() int { return len(b) }

// Insert places tok before index i. i must be within [0, Len()].
func (b *Buffer) Insert(i int, tok string) {
	if i < 0 || i > len(*b) {
		panic("lineedit: insert index out of range")
	}
	*b = append(*b, "")
	copy((*b)[i+1:], (*b)[i:])
	(*b)[i] = tok
}

// Remove deletes the token at index i. i must be within [0, Len()).
func (b *Buffer) Remove(i int) {
	if i < 0 || i >= len(*b) {
		panic("lineedit: remove index out of range")
	}
	*b = append((*b)[:i], (*b)[i+1:]...)
}

// Concat joins the raw text of every token.
func (b Buffer) Concat() string { return strings.Join(b, "") }

func (b Buffer) Clone() Buffer {
	if b == nil {
		return nil
	}
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}

func (b Buffer) Equal(o Buffer) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Column is the number of raw runes in the tokens before cursor.
func (b Buffer) Column(cursor int) int {
	col := 0
	for _, tok := range b[:cursor] {
		col += utf8.RuneCountInString(tok)
	}
	return col
}

// CursorAt maps a raw column back to a token index. Tokens are consumed while
// any of the column remains, so a column that falls inside a token places the
// cursor after that token, and a column on a boundary places it right after
// the token ending there.
func (b Buffer) CursorAt(column int) int {
	i := 0
	for column > 0 && i < len(b) {
		column -= utf8.RuneCountInString(b[i])
		i++
	}
	return i
}

func isSpaceToken(tok string) bool {
	return strings.TrimSpace(tok) == "" && tok != ""
}
