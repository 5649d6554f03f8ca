// Package lineedit is a single-line terminal editor for REPL prompts.
//
// The editor keeps the line as a Buffer of atomic tokens and a cursor that
// counts tokens. Four hooks shape everything domain specific: a Preprocessor
// re-tokenizes the buffer and proposes completion suffixes, a Renderer turns
// the buffer into a coloured display string plus cursor column, a Finalizer
// converts the accepted line into the caller's type, and a FallbackHandler
// receives the keys the editor does not handle.
//
// Because a Preprocessor may merge or split tokens, the cursor is carried
// across every rewrite as a raw column (runes before the cursor) rather than
// as a token index. Renderers that substitute longer display forms use a
// ColumnBudget to translate the token cursor into a terminal column.
//
//	ed := lineedit.NewBuilder[string]("> ").
//		Preprocessor(pre).
//		Renderer(ren).
//		Build()
//	line, err := ed.Prompt()
//	if errors.Is(err, lineedit.ErrInterrupted) {
//		// Ctrl-C
//	}
package lineedit
