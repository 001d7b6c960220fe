// run.go: the lex-parse-evaluate entry points drivers build on.
package sentience

// Version is the engine version reported by the CLI.
const Version = "0.3.0"

// NewProgramContext creates a fresh top-level frame with the full global
// environment. The REPL reuses one across inputs so definitions persist.
func NewProgramContext() *Context {
	ctx := NewContext("<program>", nil, nil)
	ctx.Symbols = NewGlobalSymbolTable()
	return ctx
}

// Run executes src in a fresh program context. name labels the source in
// errors; by convention it is the file path or "<stdin>".
func (ip *Interpreter) Run(name, src string) (Value, error) {
	return ip.RunInContext(name, src, NewProgramContext())
}

// RunInContext executes src in an existing frame. The returned error is one
// of the engine error types (render with Pretty) or nil.
func (ip *Interpreter) RunInContext(name, src string, ctx *Context) (Value, error) {
	tokens, err := Tokenize(name, src)
	if err != nil {
		return Value{}, err
	}
	node, err := Parse(tokens)
	if err != nil {
		return Value{}, err
	}
	r := ip.Eval(node, ctx)
	if r.Err != nil {
		return Value{}, r.Err
	}
	return r.Value, nil
}

// NeedsMoreInput reports whether src looks like the prefix of a valid program
// rather than a broken one: the parse failed, but only at end of input. The
// REPL uses this to keep reading continuation lines for block forms.
func NeedsMoreInput(src string) bool {
	tokens, err := Tokenize("<repl>", src)
	if err != nil {
		if e, ok := err.(*ExpectedCharError); ok {
			return e.PosEnd.Idx >= len(src)
		}
		return false
	}
	_, perr := Parse(tokens)
	se, ok := perr.(*InvalidSyntaxError)
	if !ok {
		return false
	}
	return se.PosStart.Idx >= len(src)
}
