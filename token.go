package sentience

// TokenType represents the kind of token.
type TokenType int

const (
	// Literals & identifiers
	INT TokenType = iota
	FLOAT
	STRING
	IDENTIFIER
	KEYWORD

	// Operators
	PLUS
	MINUS
	MUL
	DIV
	POW
	EQ // "="
	EE // "=="
	NE // "!="
	LT
	GT
	LTE
	GTE

	// Punctuation
	LPAREN
	RPAREN
	LSQUARE
	RSQUARE
	COMMA
	ARROW // "->"

	// Separators
	NEWLINE // newline or ';'
	EOF
)

var tokenNames = map[TokenType]string{
	INT:        "int",
	FLOAT:      "float",
	STRING:     "string",
	IDENTIFIER: "identifier",
	KEYWORD:    "keyword",
	PLUS:       "'+'",
	MINUS:      "'-'",
	MUL:        "'*'",
	DIV:        "'/'",
	POW:        "'^'",
	EQ:         "'='",
	EE:         "'=='",
	NE:         "'!='",
	LT:         "'<'",
	GT:         "'>'",
	LTE:        "'<='",
	GTE:        "'>='",
	LPAREN:     "'('",
	RPAREN:     "')'",
	LSQUARE:    "'['",
	RSQUARE:    "']'",
	COMMA:      "','",
	ARROW:      "'->'",
	NEWLINE:    "newline",
	EOF:        "end of input",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return "<unknown token>"
}

// keywords is the fixed, case-sensitive keyword set. An identifier that
// matches one of these lexes as KEYWORD instead of IDENTIFIER.
var keywords = map[string]bool{
	"VAR":      true,
	"AND":      true,
	"OR":       true,
	"NOT":      true,
	"IF":       true,
	"ELIF":     true,
	"ELSE":     true,
	"FOR":      true,
	"TO":       true,
	"STEP":     true,
	"WHILE":    true,
	"FUN":      true,
	"THEN":     true,
	"END":      true,
	"RETURN":   true,
	"CONTINUE": true,
	"BREAK":    true,
	"EMBED":    true,
	"WITH":     true,
	"AI":       true,
	"PIPE":     true,
}

// Token is a lexical token with an optional literal value.
//
// Value holds float64 for INT/FLOAT, the decoded text for STRING, and the
// lexeme for IDENTIFIER/KEYWORD; it is nil for operators and punctuation.
// PosStart/PosEnd are copies of the lexer cursor, never aliases.
type Token struct {
	Type     TokenType
	Value    any
	PosStart Position
	PosEnd   Position
}

// Matches reports whether the token has the given type and string value.
func (t Token) Matches(tt TokenType, value string) bool {
	return t.Type == tt && t.Value == value
}

func (t Token) String() string {
	if t.Value != nil {
		switch t.Type {
		case STRING:
			return "string literal"
		case KEYWORD:
			return "'" + t.Value.(string) + "'"
		}
	}
	return t.Type.String()
}
