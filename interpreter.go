// interpreter.go: the tree-walking evaluator.
//
// Eval dispatches on the concrete node type. Control flow (RETURN, CONTINUE,
// BREAK) travels in the Result carrier, never as Go panics. Function calls
// chain a fresh frame to the function's defining context, so closures see the
// environment they were created in, not the caller's.
package sentience

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// DefaultMaxCallDepth bounds user-level recursion before the interpreter
// reports a stack overflow instead of exhausting the Go stack.
const DefaultMaxCallDepth = 10000

// Interpreter evaluates an AST. The zero value is not usable; construct with
// NewInterpreter.
type Interpreter struct {
	embedder Embedder
	models   ModelInvoker
	maxDepth int
	depth    int
	stdout   io.Writer
	stdin    *bufio.Reader
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithEmbedder replaces the embedding capability. Passing nil disables EMBED.
func WithEmbedder(e Embedder) Option {
	return func(ip *Interpreter) { ip.embedder = e }
}

// WithModels installs the model-invocation capability backing AI expressions.
func WithModels(m ModelInvoker) Option {
	return func(ip *Interpreter) { ip.models = m }
}

// WithMaxCallDepth overrides the recursion limit.
func WithMaxCallDepth(n int) Option {
	return func(ip *Interpreter) { ip.maxDepth = n }
}

// WithStdout redirects builtin print output.
func WithStdout(w io.Writer) Option {
	return func(ip *Interpreter) { ip.stdout = w }
}

// WithStdin redirects builtin input.
func WithStdin(r io.Reader) Option {
	return func(ip *Interpreter) { ip.stdin = bufio.NewReader(r) }
}

// NewInterpreter builds an interpreter with the local deterministic embedder
// and no model capability.
func NewInterpreter(opts ...Option) *Interpreter {
	ip := &Interpreter{
		embedder: NewLocalEmbedder(),
		maxDepth: DefaultMaxCallDepth,
		stdout:   os.Stdout,
		stdin:    bufio.NewReader(os.Stdin),
	}
	for _, o := range opts {
		o(ip)
	}
	return ip
}

// Eval evaluates node in ctx.
func (ip *Interpreter) Eval(node Node, ctx *Context) Result {
	switch n := node.(type) {
	case *NumberNode:
		return Success(NewNumber(n.Tok.Value.(float64)).WithContext(ctx).WithPos(n.Tok.PosStart, n.Tok.PosEnd))
	case *StringNode:
		return Success(NewString(n.Tok.Value.(string)).WithContext(ctx).WithPos(n.Tok.PosStart, n.Tok.PosEnd))
	case *ListNode:
		return ip.evalList(n, ctx)
	case *VarAccessNode:
		return ip.evalVarAccess(n, ctx)
	case *VarAssignNode:
		return ip.evalVarAssign(n, ctx)
	case *BinOpNode:
		return ip.evalBinOp(n, ctx)
	case *UnaryOpNode:
		return ip.evalUnaryOp(n, ctx)
	case *IfNode:
		return ip.evalIf(n, ctx)
	case *ForNode:
		return ip.evalFor(n, ctx)
	case *WhileNode:
		return ip.evalWhile(n, ctx)
	case *FuncDefNode:
		return ip.evalFuncDef(n, ctx)
	case *CallNode:
		return ip.evalCall(n, ctx)
	case *ReturnNode:
		return ip.evalReturn(n, ctx)
	case *ContinueNode:
		return SuccessContinue()
	case *BreakNode:
		return SuccessBreak()
	case *EmbedNode:
		return ip.evalEmbed(n, ctx)
	case *AICallNode:
		return ip.evalAICall(n, ctx)
	case *PipeNode:
		return ip.evalPipe(n, ctx)
	}
	start, end := node.Span()
	return Failure(&RuntimeError{PosStart: start, PosEnd: end, Msg: fmt.Sprintf("No evaluation rule for %T", node), Ctx: ctx})
}

func (ip *Interpreter) evalList(n *ListNode, ctx *Context) Result {
	elems := make([]Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		r := ip.Eval(el, ctx)
		if r.ShouldReturn() {
			return r
		}
		elems = append(elems, r.Value)
	}
	return Success(NewList(elems).WithContext(ctx).WithPos(n.PosStart, n.PosEnd))
}

func (ip *Interpreter) evalVarAccess(n *VarAccessNode, ctx *Context) Result {
	name := n.NameTok.Value.(string)
	v, ok := ctx.Symbols.Get(name)
	if !ok {
		return Failure(&RuntimeError{PosStart: n.NameTok.PosStart, PosEnd: n.NameTok.PosEnd, Msg: fmt.Sprintf("'%s' is not defined", name), Ctx: ctx})
	}
	return Success(v.WithContext(ctx).WithPos(n.NameTok.PosStart, n.NameTok.PosEnd))
}

func (ip *Interpreter) evalVarAssign(n *VarAssignNode, ctx *Context) Result {
	r := ip.Eval(n.Value, ctx)
	if r.ShouldReturn() {
		return r
	}
	ctx.Symbols.Set(n.NameTok.Value.(string), r.Value)
	return Success(r.Value)
}

func (ip *Interpreter) evalBinOp(n *BinOpNode, ctx *Context) Result {
	left := ip.Eval(n.Left, ctx)
	if left.ShouldReturn() {
		return left
	}
	right := ip.Eval(n.Right, ctx)
	if right.ShouldReturn() {
		return right
	}
	v, err := left.Value.BinaryOp(n.Op, right.Value)
	if err != nil {
		return Failure(err)
	}
	start, end := n.Span()
	return Success(v.WithContext(ctx).WithPos(start, end))
}

func (ip *Interpreter) evalUnaryOp(n *UnaryOpNode, ctx *Context) Result {
	r := ip.Eval(n.Operand, ctx)
	if r.ShouldReturn() {
		return r
	}
	v, err := r.Value.UnaryOp(n.Op)
	if err != nil {
		return Failure(err)
	}
	start, end := n.Span()
	return Success(v.WithContext(ctx).WithPos(start, end))
}

func (ip *Interpreter) evalIf(n *IfNode, ctx *Context) Result {
	for _, c := range n.Cases {
		cond := ip.Eval(c.Cond, ctx)
		if cond.ShouldReturn() {
			return cond
		}
		if cond.Value.IsTrue() {
			body := ip.Eval(c.Body, ctx)
			if body.ShouldReturn() {
				return body
			}
			if c.ReturnNull {
				return Success(Null())
			}
			return Success(body.Value)
		}
	}
	if n.Else != nil {
		body := ip.Eval(n.Else.Body, ctx)
		if body.ShouldReturn() {
			return body
		}
		if n.Else.ReturnNull {
			return Success(Null())
		}
		return Success(body.Value)
	}
	return Success(Null())
}

func (ip *Interpreter) evalFor(n *ForNode, ctx *Context) Result {
	start := ip.Eval(n.Start, ctx)
	if start.ShouldReturn() {
		return start
	}
	end := ip.Eval(n.End, ctx)
	if end.ShouldReturn() {
		return end
	}

	step := NewNumber(1)
	if n.Step != nil {
		r := ip.Eval(n.Step, ctx)
		if r.ShouldReturn() {
			return r
		}
		step = r.Value
	}

	if start.Value.Tag != VTNumber || end.Value.Tag != VTNumber || step.Tag != VTNumber {
		ps, pe := n.Span()
		return Failure(&RuntimeError{PosStart: ps, PosEnd: pe, Msg: "FOR bounds and step must be numbers", Ctx: ctx})
	}

	i := start.Value.Num()
	limit := end.Value.Num()
	delta := step.Num()
	cond := func() bool { return i < limit }
	if delta < 0 {
		cond = func() bool { return i > limit }
	}

	var elems []Value
	name := n.VarTok.Value.(string)
	for cond() {
		ctx.Symbols.Set(name, NewNumber(i))
		i += delta

		body := ip.Eval(n.Body, ctx)
		if body.Err != nil || body.FuncReturn != nil {
			return body
		}
		if body.LoopContinue {
			continue
		}
		if body.LoopBreak {
			break
		}
		elems = append(elems, body.Value)
	}

	if n.ReturnNull {
		return Success(Null())
	}
	ps, pe := n.Span()
	return Success(NewList(elems).WithContext(ctx).WithPos(ps, pe))
}

func (ip *Interpreter) evalWhile(n *WhileNode, ctx *Context) Result {
	var elems []Value
	for {
		cond := ip.Eval(n.Cond, ctx)
		if cond.ShouldReturn() {
			return cond
		}
		if !cond.Value.IsTrue() {
			break
		}

		body := ip.Eval(n.Body, ctx)
		if body.Err != nil || body.FuncReturn != nil {
			return body
		}
		if body.LoopContinue {
			continue
		}
		if body.LoopBreak {
			break
		}
		elems = append(elems, body.Value)
	}

	if n.ReturnNull {
		return Success(Null())
	}
	ps, pe := n.Span()
	return Success(NewList(elems).WithContext(ctx).WithPos(ps, pe))
}

func (ip *Interpreter) evalFuncDef(n *FuncDefNode, ctx *Context) Result {
	name := "<anonymous>"
	if n.NameTok != nil {
		name = n.NameTok.Value.(string)
	}
	args := make([]string, len(n.ArgToks))
	for i, t := range n.ArgToks {
		args[i] = t.Value.(string)
	}

	fn := &Function{Name: name, Body: n.Body, ArgNames: args, AutoReturn: n.AutoReturn, DefCtx: ctx}
	ps, pe := n.Span()
	v := NewFunc(fn).WithContext(ctx).WithPos(ps, pe)

	if n.NameTok != nil {
		ctx.Symbols.Set(name, v)
	}
	return Success(v)
}

func (ip *Interpreter) evalCall(n *CallNode, ctx *Context) Result {
	callee := ip.Eval(n.Callee, ctx)
	if callee.ShouldReturn() {
		return callee
	}

	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		r := ip.Eval(a, ctx)
		if r.ShouldReturn() {
			return r
		}
		args = append(args, r.Value)
	}

	start, end := n.Span()
	fn := callee.Value.WithPos(start, end)
	r := ip.Call(fn, args, ctx)
	if r.ShouldReturn() {
		return r
	}
	return Success(r.Value.WithContext(ctx).WithPos(start, end))
}

func (ip *Interpreter) evalReturn(n *ReturnNode, ctx *Context) Result {
	if n.Expr == nil {
		return SuccessReturn(Null())
	}
	r := ip.Eval(n.Expr, ctx)
	if r.ShouldReturn() {
		return r
	}
	return SuccessReturn(r.Value)
}

// Call invokes a callable value with already-evaluated arguments. ctx is the
// frame the call site lives in; it becomes the new frame's traceback parent.
// For user functions the symbol table chains to the defining context instead,
// so name lookup is lexical while tracebacks follow the call chain.
func (ip *Interpreter) Call(fn Value, args []Value, ctx *Context) Result {
	if !fn.IsCallable() {
		return Failure(&RuntimeError{PosStart: fn.PosStart, PosEnd: fn.PosEnd, Msg: fn.TypeName() + " is not callable", Ctx: ctx})
	}

	if ip.depth >= ip.maxDepth {
		return Failure(&RuntimeError{PosStart: fn.PosStart, PosEnd: fn.PosEnd, Msg: "stack overflow", Ctx: ctx})
	}
	ip.depth++
	defer func() { ip.depth-- }()

	if fn.Tag == VTBuiltin {
		return ip.callBuiltin(fn, args, ctx)
	}
	return ip.callFunction(fn, args, ctx)
}

func (ip *Interpreter) callFunction(fn Value, args []Value, ctx *Context) Result {
	f := fn.Data.(*Function)
	if err := checkArity(fn, f.Name, len(f.ArgNames), args, ctx); err != nil {
		return Failure(err)
	}

	entry := fn.PosStart
	frame := NewContext(f.Name, ctx, &entry)
	frame.Symbols = NewSymbolTable(f.DefCtx.Symbols)
	for i, name := range f.ArgNames {
		frame.Symbols.Set(name, args[i].WithContext(frame))
	}

	body := ip.Eval(f.Body, frame)
	if body.Err != nil {
		return body
	}
	if f.AutoReturn {
		return Success(body.Value)
	}
	if body.FuncReturn != nil {
		return Success(*body.FuncReturn)
	}
	return Success(Null())
}

func (ip *Interpreter) callBuiltin(fn Value, args []Value, ctx *Context) Result {
	b := fn.Data.(*Builtin)
	if err := checkArity(fn, b.Name, len(b.ArgNames), args, ctx); err != nil {
		return Failure(err)
	}

	entry := fn.PosStart
	frame := NewContext(b.Name, ctx, &entry)
	frame.Symbols = NewSymbolTable(ctx.Symbols)
	for i, name := range b.ArgNames {
		frame.Symbols.Set(name, args[i].WithContext(frame))
	}

	v, err := b.Impl(ip, fn, frame)
	if err != nil {
		return Failure(err)
	}
	return Success(v)
}

func checkArity(fn Value, name string, want int, args []Value, ctx *Context) *RuntimeError {
	if len(args) > want {
		return &RuntimeError{PosStart: fn.PosStart, PosEnd: fn.PosEnd, Msg: fmt.Sprintf("%d too many args passed into '%s'", len(args)-want, name), Ctx: ctx}
	}
	if len(args) < want {
		return &RuntimeError{PosStart: fn.PosStart, PosEnd: fn.PosEnd, Msg: fmt.Sprintf("%d too few args passed into '%s'", want-len(args), name), Ctx: ctx}
	}
	return nil
}

// -----------------------------------------------------------------------------
// extensions
// -----------------------------------------------------------------------------

func (ip *Interpreter) evalEmbed(n *EmbedNode, ctx *Context) Result {
	text := ip.Eval(n.Text, ctx)
	if text.ShouldReturn() {
		return text
	}
	if text.Value.Tag != VTString {
		s, e := n.Text.Span()
		return Failure(&RuntimeError{PosStart: s, PosEnd: e, Msg: "EMBED expects a string, got " + text.Value.TypeName(), Ctx: ctx})
	}

	model := "default"
	if n.Model != nil {
		r := ip.Eval(n.Model, ctx)
		if r.ShouldReturn() {
			return r
		}
		if r.Value.Tag != VTString {
			s, e := n.Model.Span()
			return Failure(&RuntimeError{PosStart: s, PosEnd: e, Msg: "EMBED model must be a string, got " + r.Value.TypeName(), Ctx: ctx})
		}
		model = r.Value.Str()
	}

	if ip.embedder == nil {
		return Failure(&RuntimeError{PosStart: n.PosStart, PosEnd: n.PosEnd, Msg: "No embedding capability configured", Ctx: ctx})
	}
	vec, err := ip.embedder.Embed(text.Value.Str(), model)
	if err != nil {
		return Failure(&RuntimeError{PosStart: n.PosStart, PosEnd: n.PosEnd, Msg: "Embedding failed: " + err.Error(), Ctx: ctx})
	}

	elems := make([]Value, len(vec))
	for i, f := range vec {
		elems[i] = NewNumber(f)
	}
	return Success(NewList(elems).WithContext(ctx).WithPos(n.PosStart, n.PosEnd))
}

func (ip *Interpreter) evalAICall(n *AICallNode, ctx *Context) Result {
	if ip.models == nil {
		return Failure(&RuntimeError{PosStart: n.PosStart, PosEnd: n.PosEnd, Msg: "No model capability configured", Ctx: ctx})
	}

	model := n.ModelTok.Value.(string)
	goArgs := make([]any, 0, len(n.Args))
	for _, a := range n.Args {
		r := ip.Eval(a, ctx)
		if r.ShouldReturn() {
			return r
		}
		switch r.Value.Tag {
		case VTNumber:
			goArgs = append(goArgs, r.Value.Num())
		case VTString:
			goArgs = append(goArgs, r.Value.Str())
		default:
			s, e := a.Span()
			return Failure(&RuntimeError{PosStart: s, PosEnd: e, Msg: "AI arguments must be numbers or strings, got " + r.Value.TypeName(), Ctx: ctx})
		}
	}

	out, err := ip.models.InvokeModel(model, goArgs)
	if err != nil {
		return Failure(&RuntimeError{PosStart: n.PosStart, PosEnd: n.PosEnd, Msg: "Model '" + model + "' failed: " + err.Error(), Ctx: ctx})
	}
	return Success(fromModelResult(out).WithContext(ctx).WithPos(n.PosStart, n.PosEnd))
}

// fromModelResult coerces a capability's native result into a language value:
// numerics become numbers, slices become lists, everything else a string.
func fromModelResult(out any) Value {
	switch x := out.(type) {
	case nil:
		return Null()
	case float64:
		return NewNumber(x)
	case float32:
		return NewNumber(float64(x))
	case int:
		return NewNumber(float64(x))
	case int64:
		return NewNumber(float64(x))
	case bool:
		return Bool(x)
	case string:
		return NewString(x)
	case []float64:
		elems := make([]Value, len(x))
		for i, f := range x {
			elems[i] = NewNumber(f)
		}
		return NewList(elems)
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = fromModelResult(e)
		}
		return NewList(elems)
	default:
		return NewString(fmt.Sprint(x))
	}
}

func (ip *Interpreter) evalPipe(n *PipeNode, ctx *Context) Result {
	left := ip.Eval(n.Left, ctx)
	if left.ShouldReturn() {
		return left
	}

	var fn Value
	if access, ok := n.Right.(*VarAccessNode); ok {
		name := access.NameTok.Value.(string)
		v, found := ctx.Symbols.Get(name)
		if !found {
			return Failure(&RuntimeError{PosStart: access.NameTok.PosStart, PosEnd: access.NameTok.PosEnd, Msg: fmt.Sprintf("'%s' is not defined", name), Ctx: ctx})
		}
		fn = v
	} else {
		r := ip.Eval(n.Right, ctx)
		if r.ShouldReturn() {
			return r
		}
		fn = r.Value
	}

	rs, re := n.Right.Span()
	if !fn.IsCallable() {
		return Failure(&RuntimeError{PosStart: rs, PosEnd: re, Msg: "Expected a function on the right of PIPE, got " + fn.TypeName(), Ctx: ctx})
	}

	start, end := n.Span()
	out := ip.Call(fn.WithPos(rs, re).WithContext(ctx), []Value{left.Value}, ctx)
	if out.ShouldReturn() {
		return out
	}
	return Success(out.Value.WithContext(ctx).WithPos(start, end))
}
