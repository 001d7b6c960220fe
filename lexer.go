// lexer.go: scans Sentience source into a token stream.
//
// The scanner is a single forward pass over the raw bytes with one character
// of lookahead for the two-character operators ('==', '!=', '<=', '>=', '->').
// Both '\n' and ';' emit NEWLINE; '#' comments run to end of line. Lexing is
// fail-fast: the first error aborts the scan, there is no recovery.
package sentience

import "strconv"

const (
	digits     = "0123456789"
	letters    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	whitespace = " \t\r"
	identChars = letters + digits + "_"
)

// Lexer scans one source text. The cursor position is copied into every token
// it emits, so tokens stay valid after the lexer advances.
type Lexer struct {
	text string
	pos  Position
	cur  byte
	ok   bool // cur is valid
}

// NewLexer creates a lexer over text; name labels the source in errors.
func NewLexer(name, text string) *Lexer {
	l := &Lexer{text: text, pos: StartPosition(name, text)}
	l.advance()
	return l
}

// Tokenize is the convenience one-shot entry: scan the whole text and return
// the token sequence (terminated by exactly one EOF token) or the first
// lexical error.
func Tokenize(name, text string) ([]Token, error) {
	return NewLexer(name, text).Scan()
}

func (l *Lexer) advance() {
	l.pos = l.pos.Advance(l.cur)
	if l.pos.Idx < len(l.text) {
		l.cur = l.text[l.pos.Idx]
		l.ok = true
	} else {
		l.cur = 0
		l.ok = false
	}
}

func (l *Lexer) peek() (byte, bool) {
	idx := l.pos.Idx + 1
	if idx < len(l.text) {
		return l.text[idx], true
	}
	return 0, false
}

func contains(set string, ch byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == ch {
			return true
		}
	}
	return false
}

// Scan tokenizes the entire source. It stops at the first error.
func (l *Lexer) Scan() ([]Token, error) {
	var tokens []Token

	for l.ok {
		ch := l.cur
		switch {
		case contains(whitespace, ch):
			l.advance()
		case ch == '#':
			l.skipComment()
		case ch == '\n' || ch == ';':
			tokens = append(tokens, l.single(NEWLINE))
		case contains(digits, ch):
			tokens = append(tokens, l.scanNumber())
		case ch == '.':
			// A dot starts a number only when a digit follows; a bare dot
			// has no meaning in the grammar.
			if next, ok := l.peek(); ok && contains(digits, next) {
				tokens = append(tokens, l.scanNumber())
			} else {
				return nil, &IllegalCharError{PosStart: l.pos, PosEnd: l.pos.Advance(ch), Char: ch}
			}
		case contains(letters, ch) || ch == '_':
			tokens = append(tokens, l.scanIdentifier())
		case ch == '"':
			tok, err := l.scanString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case ch == '+':
			tokens = append(tokens, l.single(PLUS))
		case ch == '-':
			tokens = append(tokens, l.minusOrArrow())
		case ch == '*':
			tokens = append(tokens, l.single(MUL))
		case ch == '/':
			tokens = append(tokens, l.single(DIV))
		case ch == '^':
			tokens = append(tokens, l.single(POW))
		case ch == '(':
			tokens = append(tokens, l.single(LPAREN))
		case ch == ')':
			tokens = append(tokens, l.single(RPAREN))
		case ch == '[':
			tokens = append(tokens, l.single(LSQUARE))
		case ch == ']':
			tokens = append(tokens, l.single(RSQUARE))
		case ch == ',':
			tokens = append(tokens, l.single(COMMA))
		case ch == '!':
			tok, err := l.notEquals()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case ch == '=':
			tokens = append(tokens, l.pair(EQ, '=', EE))
		case ch == '<':
			tokens = append(tokens, l.pair(LT, '=', LTE))
		case ch == '>':
			tokens = append(tokens, l.pair(GT, '=', GTE))
		default:
			start := l.pos
			l.advance()
			return nil, &IllegalCharError{PosStart: start, PosEnd: l.pos, Char: ch}
		}
	}

	tokens = append(tokens, Token{Type: EOF, PosStart: l.pos, PosEnd: l.pos})
	return tokens, nil
}

// single emits a one-character token and advances past it.
func (l *Lexer) single(tt TokenType) Token {
	start := l.pos
	l.advance()
	return Token{Type: tt, PosStart: start, PosEnd: l.pos}
}

// pair emits a one- or two-character token: base, or extended when the next
// character matches next.
func (l *Lexer) pair(base TokenType, next byte, extended TokenType) Token {
	start := l.pos
	l.advance()
	tt := base
	if l.ok && l.cur == next {
		l.advance()
		tt = extended
	}
	return Token{Type: tt, PosStart: start, PosEnd: l.pos}
}

func (l *Lexer) minusOrArrow() Token {
	start := l.pos
	l.advance()
	tt := MINUS
	if l.ok && l.cur == '>' {
		l.advance()
		tt = ARROW
	}
	return Token{Type: tt, PosStart: start, PosEnd: l.pos}
}

// notEquals handles '!': only valid as the start of '!='.
func (l *Lexer) notEquals() (Token, error) {
	start := l.pos
	l.advance()
	if l.ok && l.cur == '=' {
		l.advance()
		return Token{Type: NE, PosStart: start, PosEnd: l.pos}, nil
	}
	return Token{}, &ExpectedCharError{PosStart: start, PosEnd: l.pos, Msg: "'=' (after '!')"}
}

// scanNumber reads an integer or float literal. A single dot switches to a
// float; a second dot terminates the literal so the following characters can
// start a new token.
func (l *Lexer) scanNumber() Token {
	start := l.pos
	var lit []byte
	dots := 0

	for l.ok && (contains(digits, l.cur) || l.cur == '.') {
		if l.cur == '.' {
			if dots == 1 {
				break
			}
			dots++
		}
		lit = append(lit, l.cur)
		l.advance()
	}

	// The set of accepted lexemes here always parses: digits with at most
	// one dot, or a dot with at least one following digit.
	v, _ := strconv.ParseFloat(string(lit), 64)
	tt := INT
	if dots > 0 {
		tt = FLOAT
	}
	return Token{Type: tt, Value: v, PosStart: start, PosEnd: l.pos}
}

// scanString reads a double-quoted literal with backslash escapes. \n, \t and
// \" decode; any other escaped character passes through literally. Reaching
// end of input before the closing quote is an error.
func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.advance() // opening quote

	var out []byte
	escaped := false
	for l.ok {
		ch := l.cur
		if escaped {
			switch ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, ch)
			}
			escaped = false
			l.advance()
			continue
		}
		switch ch {
		case '\\':
			escaped = true
			l.advance()
		case '"':
			l.advance() // closing quote
			return Token{Type: STRING, Value: string(out), PosStart: start, PosEnd: l.pos}, nil
		default:
			out = append(out, ch)
			l.advance()
		}
	}
	return Token{}, &ExpectedCharError{PosStart: start, PosEnd: l.pos, Msg: "'\"' (string was not terminated)"}
}

// scanIdentifier reads [A-Za-z_][A-Za-z0-9_]* and classifies it as KEYWORD or
// IDENTIFIER.
func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	var lit []byte
	for l.ok && contains(identChars, l.cur) {
		lit = append(lit, l.cur)
		l.advance()
	}
	name := string(lit)
	tt := IDENTIFIER
	if keywords[name] {
		tt = KEYWORD
	}
	return Token{Type: tt, Value: name, PosStart: start, PosEnd: l.pos}
}

func (l *Lexer) skipComment() {
	for l.ok && l.cur != '\n' {
		l.advance()
	}
}
