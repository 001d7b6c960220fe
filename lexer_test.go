// lexer_test.go
package sentience

import (
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize("<test>", src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_Examples_VarAssign(t *testing.T) {
	got := wantTypes(t, `VAR answer = 42`, []TokenType{KEYWORD, IDENTIFIER, EQ, INT})
	if got[0].Value.(string) != "VAR" {
		t.Fatalf("keyword lexeme = %v", got[0].Value)
	}
	if got[1].Value.(string) != "answer" {
		t.Fatalf("identifier lexeme = %v", got[1].Value)
	}
	if got[3].Value.(float64) != 42 {
		t.Fatalf("int literal = %v", got[3].Value)
	}
}

func Test_Lexer_KeywordsAreCaseSensitive(t *testing.T) {
	// Lowercase forms are plain identifiers.
	wantTypes(t, `var While fun`, []TokenType{IDENTIFIER, IDENTIFIER, IDENTIFIER})
	wantTypes(t, `VAR WHILE FUN`, []TokenType{KEYWORD, KEYWORD, KEYWORD})
}

func Test_Lexer_Operators(t *testing.T) {
	wantTypes(t, `+ - * / ^ = == != < > <= >= -> ( ) [ ] ,`, []TokenType{
		PLUS, MINUS, MUL, DIV, POW, EQ, EE, NE, LT, GT, LTE, GTE, ARROW,
		LPAREN, RPAREN, LSQUARE, RSQUARE, COMMA,
	})
}

func Test_Lexer_NewlineAndSemicolon(t *testing.T) {
	wantTypes(t, "1\n2;3", []TokenType{INT, NEWLINE, INT, NEWLINE, INT})
}

func Test_Lexer_CommentsRunToEndOfLine(t *testing.T) {
	wantTypes(t, "1 # ignored + * /\n2", []TokenType{INT, NEWLINE, INT})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, `7 3.25 .5`, []TokenType{INT, FLOAT, FLOAT})
	if got[1].Value.(float64) != 3.25 {
		t.Fatalf("float literal = %v", got[1].Value)
	}
	if got[2].Value.(float64) != 0.5 {
		t.Fatalf("leading-dot literal = %v", got[2].Value)
	}
}

func Test_Lexer_SecondDotStartsNewToken(t *testing.T) {
	got := wantTypes(t, `1.2.3`, []TokenType{FLOAT, FLOAT})
	if got[0].Value.(float64) != 1.2 {
		t.Fatalf("first literal = %v", got[0].Value)
	}
	if got[1].Value.(float64) != 0.3 {
		t.Fatalf("second literal = %v", got[1].Value)
	}
}

func Test_Lexer_BareDotIsIllegal(t *testing.T) {
	_, err := Tokenize("<test>", `1 . 2`)
	if _, ok := err.(*IllegalCharError); !ok {
		t.Fatalf("want IllegalCharError, got %T (%v)", err, err)
	}
}

func Test_Lexer_StringEscapes(t *testing.T) {
	got := wantTypes(t, `"a\nb\tc\"d\\e"`, []TokenType{STRING})
	if got[0].Value.(string) != "a\nb\tc\"d\\e" {
		t.Fatalf("decoded string = %q", got[0].Value)
	}
}

func Test_Lexer_UnterminatedString(t *testing.T) {
	_, err := Tokenize("<test>", `"never closed`)
	e, ok := err.(*ExpectedCharError)
	if !ok {
		t.Fatalf("want ExpectedCharError, got %T (%v)", err, err)
	}
	if e.Msg != `'"' (string was not terminated)` {
		t.Fatalf("message = %q", e.Msg)
	}
}

func Test_Lexer_DanglingBang(t *testing.T) {
	_, err := Tokenize("<test>", `!x`)
	e, ok := err.(*ExpectedCharError)
	if !ok {
		t.Fatalf("want ExpectedCharError, got %T (%v)", err, err)
	}
	if e.Msg != "'=' (after '!')" {
		t.Fatalf("message = %q", e.Msg)
	}
}

func Test_Lexer_IllegalCharacter(t *testing.T) {
	_, err := Tokenize("<test>", "VAR x = @")
	e, ok := err.(*IllegalCharError)
	if !ok {
		t.Fatalf("want IllegalCharError, got %T (%v)", err, err)
	}
	if e.Char != '@' {
		t.Fatalf("char = %q", e.Char)
	}
	if e.PosStart.Line != 1 || e.PosStart.Col != 8 {
		t.Fatalf("position = %d:%d", e.PosStart.Line, e.PosStart.Col)
	}
}

func Test_Lexer_PositionsAcrossLines(t *testing.T) {
	got := toks(t, "1\n  2")
	two := got[2]
	if two.Type != INT || two.PosStart.Line != 2 || two.PosStart.Col != 2 {
		t.Fatalf("token %v at %d:%d", two, two.PosStart.Line, two.PosStart.Col)
	}
}

func Test_Lexer_EOFAlwaysPresent(t *testing.T) {
	got := toks(t, "")
	if len(got) != 1 || got[0].Type != EOF {
		t.Fatalf("empty source tokens = %v", got)
	}
}
