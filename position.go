package sentience

// Position is a cursor into a source text. It is carried by value everywhere
// (tokens, AST nodes, runtime values) so a stored position can never be
// mutated behind a holder's back.
//
// Line is 1-based, Col is 0-based. Name and Text identify the source for
// error snippets; they ride along so an error can render its own excerpt
// without the caller having to retain the original text.
type Position struct {
	Idx  int
	Line int
	Col  int
	Name string
	Text string
}

// StartPosition returns the cursor placed just before the first character of
// text, matching the lexer's advance-first scanning discipline.
func StartPosition(name, text string) Position {
	return Position{Idx: -1, Line: 1, Col: -1, Name: name, Text: text}
}

// Advance returns the position moved one character forward. A newline resets
// the column and bumps the line counter.
func (p Position) Advance(ch byte) Position {
	p.Idx++
	p.Col++
	if ch == '\n' {
		p.Line++
		p.Col = 0
	}
	return p
}
