// values.go: the dynamic value model.
//
// A Value is a small tagged struct passed by value everywhere, so the
// copy-then-annotate pattern (WithPos, WithContext) is just a struct copy.
// Data holds float64, string, []Value, *Function or *Builtin depending on the
// tag. Numbers double as booleans: comparisons yield 1 or 0 and truthiness is
// non-zero. There is no separate null; Null is the number 0.
package sentience

import (
	"math"
	"strings"
)

// ValueTag discriminates the dynamic type of a Value.
type ValueTag int

const (
	VTNumber ValueTag = iota
	VTString
	VTList
	VTFunc
	VTBuiltin
)

// Value is a runtime value. Ctx and the position pair locate the value's
// provenance for error reporting; they never affect semantics.
type Value struct {
	Tag      ValueTag
	Data     any
	Ctx      *Context
	PosStart Position
	PosEnd   Position
}

// Function is a user-defined function. DefCtx is the context the FUN
// expression was evaluated in; calls chain their symbol table to it, giving
// lexical closures rather than caller-scope capture. The call frame itself
// parents to the call site so tracebacks follow the dynamic call chain.
type Function struct {
	Name       string
	Body       Node
	ArgNames   []string
	AutoReturn bool
	DefCtx     *Context
}

// Builtin is a native function. Impl receives the interpreter, the value it
// was invoked through (for positions) and the execution frame with arguments
// already bound by name.
type Builtin struct {
	Name     string
	ArgNames []string
	Impl     func(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError)
}

func NewNumber(f float64) Value { return Value{Tag: VTNumber, Data: f} }

func NewString(s string) Value { return Value{Tag: VTString, Data: s} }

func NewList(vs []Value) Value { return Value{Tag: VTList, Data: vs} }

func NewFunc(f *Function) Value { return Value{Tag: VTFunc, Data: f} }

func NewBuiltin(b *Builtin) Value { return Value{Tag: VTBuiltin, Data: b} }

// Null is the absence-of-value result: the number 0.
func Null() Value { return NewNumber(0) }

// Bool maps a Go bool onto the language's 1/0 convention.
func Bool(b bool) Value {
	if b {
		return NewNumber(1)
	}
	return NewNumber(0)
}

// WithPos returns a copy annotated with a source span.
func (v Value) WithPos(start, end Position) Value {
	v.PosStart, v.PosEnd = start, end
	return v
}

// WithContext returns a copy annotated with the frame it lives in.
func (v Value) WithContext(ctx *Context) Value {
	v.Ctx = ctx
	return v
}

// Num returns the numeric payload. Callers must have checked the tag.
func (v Value) Num() float64 { return v.Data.(float64) }

// Str returns the string payload. Callers must have checked the tag.
func (v Value) Str() string { return v.Data.(string) }

// ListItems returns the list payload. Callers must have checked the tag.
func (v Value) ListItems() []Value { return v.Data.([]Value) }

// IsCallable reports whether Call may be applied to v.
func (v Value) IsCallable() bool { return v.Tag == VTFunc || v.Tag == VTBuiltin }

// TypeName is the user-facing name of the value's dynamic type.
func (v Value) TypeName() string {
	switch v.Tag {
	case VTNumber:
		return "number"
	case VTString:
		return "string"
	case VTList:
		return "list"
	case VTFunc:
		return "function"
	case VTBuiltin:
		return "built-in function"
	}
	return "value"
}

// IsTrue is the truthiness rule: non-zero numbers, non-empty strings and
// lists; functions are always true.
func (v Value) IsTrue() bool {
	switch v.Tag {
	case VTNumber:
		return v.Num() != 0
	case VTString:
		return len(v.Str()) != 0
	case VTList:
		return len(v.ListItems()) != 0
	}
	return true
}

// illegalOp is the shared "these operands don't combine" error, spanning from
// the left operand to the right.
func (v Value) illegalOp(other Value) *RuntimeError {
	return &RuntimeError{PosStart: v.PosStart, PosEnd: other.PosEnd, Msg: "Illegal operation", Ctx: v.Ctx}
}

// BinaryOp applies an infix operator token to v and other. AND and OR arrive
// here as KEYWORD tokens; everything else by operator type.
func (v Value) BinaryOp(op Token, other Value) (Value, *RuntimeError) {
	if op.Matches(KEYWORD, "AND") {
		return Bool(v.IsTrue() && other.IsTrue()), nil
	}
	if op.Matches(KEYWORD, "OR") {
		return Bool(v.IsTrue() || other.IsTrue()), nil
	}

	switch v.Tag {
	case VTNumber:
		return v.numberOp(op, other)
	case VTString:
		return v.stringOp(op, other)
	case VTList:
		return v.listOp(op, other)
	}
	return Value{}, v.illegalOp(other)
}

func (v Value) numberOp(op Token, other Value) (Value, *RuntimeError) {
	if other.Tag != VTNumber {
		return Value{}, v.illegalOp(other)
	}
	a, b := v.Num(), other.Num()

	switch op.Type {
	case PLUS:
		return NewNumber(a + b), nil
	case MINUS:
		return NewNumber(a - b), nil
	case MUL:
		return NewNumber(a * b), nil
	case DIV:
		if b == 0 {
			return Value{}, &RuntimeError{PosStart: other.PosStart, PosEnd: other.PosEnd, Msg: "Division by zero", Ctx: v.Ctx}
		}
		return NewNumber(a / b), nil
	case POW:
		return NewNumber(math.Pow(a, b)), nil
	case EE:
		return Bool(a == b), nil
	case NE:
		return Bool(a != b), nil
	case LT:
		return Bool(a < b), nil
	case GT:
		return Bool(a > b), nil
	case LTE:
		return Bool(a <= b), nil
	case GTE:
		return Bool(a >= b), nil
	}
	return Value{}, v.illegalOp(other)
}

func (v Value) stringOp(op Token, other Value) (Value, *RuntimeError) {
	switch op.Type {
	case PLUS:
		if other.Tag == VTString {
			return NewString(v.Str() + other.Str()), nil
		}
	case MUL:
		if other.Tag == VTNumber {
			n := int(other.Num())
			if n < 0 {
				n = 0
			}
			return NewString(strings.Repeat(v.Str(), n)), nil
		}
	case DIV:
		// Index a character out of the string, mirroring list indexing.
		if other.Tag == VTNumber {
			s := v.Str()
			i := int(other.Num())
			if i < 0 {
				i += len(s)
			}
			if i < 0 || i >= len(s) {
				return Value{}, &RuntimeError{PosStart: other.PosStart, PosEnd: other.PosEnd, Msg: "Character at this index could not be retrieved from string because index is out of bounds", Ctx: v.Ctx}
			}
			return NewString(string(s[i])), nil
		}
	case EE:
		if other.Tag == VTString {
			return Bool(v.Str() == other.Str()), nil
		}
	case NE:
		if other.Tag == VTString {
			return Bool(v.Str() != other.Str()), nil
		}
	}
	return Value{}, v.illegalOp(other)
}

func (v Value) listOp(op Token, other Value) (Value, *RuntimeError) {
	items := v.ListItems()

	switch op.Type {
	case PLUS:
		// Append produces a fresh backing slice so the source list is never
		// mutated through a shared array.
		out := make([]Value, 0, len(items)+1)
		out = append(out, items...)
		out = append(out, other)
		return NewList(out), nil
	case MINUS:
		if other.Tag == VTNumber {
			i := int(other.Num())
			if i < 0 {
				i += len(items)
			}
			if i < 0 || i >= len(items) {
				return Value{}, &RuntimeError{PosStart: other.PosStart, PosEnd: other.PosEnd, Msg: "Element at this index could not be removed from list because index is out of bounds", Ctx: v.Ctx}
			}
			out := make([]Value, 0, len(items)-1)
			out = append(out, items[:i]...)
			out = append(out, items[i+1:]...)
			return NewList(out), nil
		}
	case MUL:
		if other.Tag == VTList {
			o := other.ListItems()
			out := make([]Value, 0, len(items)+len(o))
			out = append(out, items...)
			out = append(out, o...)
			return NewList(out), nil
		}
	case DIV:
		if other.Tag == VTNumber {
			i := int(other.Num())
			if i < 0 {
				i += len(items)
			}
			if i < 0 || i >= len(items) {
				return Value{}, &RuntimeError{PosStart: other.PosStart, PosEnd: other.PosEnd, Msg: "Element at this index could not be retrieved from list because index is out of bounds", Ctx: v.Ctx}
			}
			return items[i], nil
		}
	}
	return Value{}, v.illegalOp(other)
}

// UnaryOp applies prefix '-', '+' or NOT.
func (v Value) UnaryOp(op Token) (Value, *RuntimeError) {
	if op.Matches(KEYWORD, "NOT") {
		return Bool(!v.IsTrue()), nil
	}
	if v.Tag != VTNumber {
		return Value{}, v.illegalOp(v)
	}
	switch op.Type {
	case MINUS:
		return NewNumber(-v.Num()), nil
	case PLUS:
		return v, nil
	}
	return Value{}, v.illegalOp(v)
}
