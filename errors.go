// errors.go: user-facing error types and caret-snippet rendering.
//
// Every error produced by the engine carries the source span it refers to, so
// the renderer can produce a Python-style excerpt with a caret pointing at the
// offending column:
//
//	Invalid Syntax in examples/loop.sn at 3:8: Expected 'THEN'
//
//	   2 | VAR total = 0
//	   3 | FOR i = 1 TO 4
//	       |        ^
//	   4 | END
//
// Runtime errors additionally carry the call-context chain at the point of
// failure and render a traceback above the snippet, innermost frame last.
// Pretty is the single entry point the drivers use; errors from outside the
// engine pass through unchanged.
package sentience

import (
	"fmt"
	"strings"
)

// IllegalCharError is a lexical error for a character the language does not
// recognize at all.
type IllegalCharError struct {
	PosStart Position
	PosEnd   Position
	Char     byte
}

func (e *IllegalCharError) Error() string {
	return fmt.Sprintf("Illegal Character at %d:%d: %q", e.PosStart.Line, e.PosStart.Col+1, string(e.Char))
}

// ExpectedCharError is a lexical error for a character that begins a
// multi-character form but is not completed (a dangling '!', an unterminated
// string).
type ExpectedCharError struct {
	PosStart Position
	PosEnd   Position
	Msg      string
}

func (e *ExpectedCharError) Error() string {
	return fmt.Sprintf("Expected Character at %d:%d: %s", e.PosStart.Line, e.PosStart.Col+1, e.Msg)
}

// InvalidSyntaxError is a parse error naming the expected token(s).
type InvalidSyntaxError struct {
	PosStart Position
	PosEnd   Position
	Msg      string
}

func (e *InvalidSyntaxError) Error() string {
	return fmt.Sprintf("Invalid Syntax at %d:%d: %s", e.PosStart.Line, e.PosStart.Col+1, e.Msg)
}

// RuntimeError is an evaluation-time failure. Ctx is the call frame the
// failure occurred in; the renderer walks its parent chain to produce a
// traceback.
type RuntimeError struct {
	PosStart Position
	PosEnd   Position
	Msg      string
	Ctx      *Context
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime Error at %d:%d: %s", e.PosStart.Line, e.PosStart.Col+1, e.Msg)
}

// Pretty renders any engine error as a multi-line snippet with a caret under
// the offending column. Non-engine errors are returned as their plain Error()
// string.
func Pretty(err error) string {
	switch e := err.(type) {
	case *IllegalCharError:
		return prettySnippet("Illegal Character", e.PosStart, fmt.Sprintf("%q", string(e.Char)))
	case *ExpectedCharError:
		return prettySnippet("Expected Character", e.PosStart, e.Msg)
	case *InvalidSyntaxError:
		return prettySnippet("Invalid Syntax", e.PosStart, e.Msg)
	case *RuntimeError:
		return tracebackString(e.Ctx, e.PosStart) + prettySnippet("Runtime Error", e.PosStart, e.Msg)
	default:
		return err.Error()
	}
}

// tracebackString walks the context chain outward and renders the frames
// oldest first, so the failing frame reads last.
func tracebackString(ctx *Context, pos Position) string {
	var frames []string
	p := pos
	for c := ctx; c != nil; c = c.Parent {
		frames = append(frames, fmt.Sprintf("  File %s, line %d, in %s\n", p.Name, p.Line, c.DisplayName))
		if c.ParentEntryPos != nil {
			p = *c.ParentEntryPos
		}
	}
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for i := len(frames) - 1; i >= 0; i-- {
		b.WriteString(frames[i])
	}
	return b.String()
}

// prettySnippet builds the header plus a caret-annotated excerpt showing at
// most one line of context on either side. Coordinates are clamped so a
// malformed position can never break rendering.
func prettySnippet(header string, pos Position, msg string) string {
	lines := strings.Split(pos.Text, "\n")
	line := pos.Line
	col := pos.Col + 1
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if pos.Name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, pos.Name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
