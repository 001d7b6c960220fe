// builtins.go: the global environment scripts start with.
//
// List-shaping builtins (append, pop, extend) are pure: they return new lists
// and never mutate their arguments, matching the copy-on-write behavior of
// the '+' '-' '*' list operators.
package sentience

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// NewGlobalSymbolTable builds the root scope: the constants null, true, false
// and math_pi plus every builtin function.
func NewGlobalSymbolTable() *SymbolTable {
	st := NewSymbolTable(nil)
	st.Set("null", Null())
	st.Set("true", NewNumber(1))
	st.Set("false", NewNumber(0))
	st.Set("math_pi", NewNumber(math.Pi))

	for _, b := range builtinDefs {
		b := b
		st.Set(b.Name, NewBuiltin(&b))
	}
	return st
}

func arg(ctx *Context, name string) Value {
	v, _ := ctx.Symbols.Get(name)
	return v
}

func typeErr(v Value, self Value, ctx *Context, msg string) *RuntimeError {
	pos := v.PosStart
	end := v.PosEnd
	if pos.Idx == 0 && pos.Line == 0 {
		pos, end = self.PosStart, self.PosEnd
	}
	return &RuntimeError{PosStart: pos, PosEnd: end, Msg: msg, Ctx: ctx}
}

// builtinDefs is filled in init rather than as a composite literal: builtinRun
// reaches Interpreter.Run, which reaches NewGlobalSymbolTable, which reads
// this slice, and a package-level literal would close that reference chain
// into an initialization cycle.
var builtinDefs []Builtin

func init() {
	builtinDefs = []Builtin{
		{Name: "print", ArgNames: []string{"value"}, Impl: builtinPrint},
		{Name: "print_ret", ArgNames: []string{"value"}, Impl: builtinPrintRet},
		{Name: "input", ArgNames: nil, Impl: builtinInput},
		{Name: "input_int", ArgNames: nil, Impl: builtinInputInt},
		{Name: "clear", ArgNames: nil, Impl: builtinClear},
		{Name: "is_number", ArgNames: []string{"value"}, Impl: builtinIsNumber},
		{Name: "is_string", ArgNames: []string{"value"}, Impl: builtinIsString},
		{Name: "is_list", ArgNames: []string{"value"}, Impl: builtinIsList},
		{Name: "is_function", ArgNames: []string{"value"}, Impl: builtinIsFunction},
		{Name: "append", ArgNames: []string{"list", "value"}, Impl: builtinAppend},
		{Name: "pop", ArgNames: []string{"list", "index"}, Impl: builtinPop},
		{Name: "extend", ArgNames: []string{"listA", "listB"}, Impl: builtinExtend},
		{Name: "len", ArgNames: []string{"value"}, Impl: builtinLen},
		{Name: "str", ArgNames: []string{"value"}, Impl: builtinStr},
		{Name: "num", ArgNames: []string{"value"}, Impl: builtinNum},
		{Name: "abs", ArgNames: []string{"value"}, Impl: builtinAbs},
		{Name: "run", ArgNames: []string{"filename"}, Impl: builtinRun},
	}
}

func builtinPrint(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	fmt.Fprintln(ip.stdout, DisplayValue(arg(ctx, "value")))
	return Null(), nil
}

func builtinPrintRet(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	return NewString(DisplayValue(arg(ctx, "value"))), nil
}

func builtinInput(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	line, _ := ip.stdin.ReadString('\n')
	return NewString(strings.TrimRight(line, "\r\n")), nil
}

func builtinInputInt(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	for {
		line, err := ip.stdin.ReadString('\n')
		text := strings.TrimSpace(line)
		if n, perr := strconv.ParseInt(text, 10, 64); perr == nil {
			return NewNumber(float64(n)), nil
		}
		fmt.Fprintf(ip.stdout, "'%s' must be an integer. Try again!\n", text)
		if err != nil {
			return Null(), nil
		}
	}
}

func builtinClear(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	fmt.Fprint(ip.stdout, "\033[2J\033[H")
	return Null(), nil
}

func builtinIsNumber(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	return Bool(arg(ctx, "value").Tag == VTNumber), nil
}

func builtinIsString(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	return Bool(arg(ctx, "value").Tag == VTString), nil
}

func builtinIsList(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	return Bool(arg(ctx, "value").Tag == VTList), nil
}

func builtinIsFunction(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	return Bool(arg(ctx, "value").IsCallable()), nil
}

func builtinAppend(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	list := arg(ctx, "list")
	if list.Tag != VTList {
		return Value{}, typeErr(list, self, ctx, "First argument must be a list")
	}
	items := list.ListItems()
	out := make([]Value, 0, len(items)+1)
	out = append(out, items...)
	out = append(out, arg(ctx, "value"))
	return NewList(out), nil
}

// builtinPop returns the element at the given index without touching the
// list. The shortened list is the '-' operator's job: list - index.
func builtinPop(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	list := arg(ctx, "list")
	index := arg(ctx, "index")
	if list.Tag != VTList {
		return Value{}, typeErr(list, self, ctx, "First argument must be a list")
	}
	if index.Tag != VTNumber {
		return Value{}, typeErr(index, self, ctx, "Second argument must be a number")
	}
	items := list.ListItems()
	i := int(index.Num())
	if i < 0 {
		i += len(items)
	}
	if i < 0 || i >= len(items) {
		return Value{}, typeErr(index, self, ctx, "Element at this index could not be removed from list because index is out of bounds")
	}
	return items[i], nil
}

func builtinExtend(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	a := arg(ctx, "listA")
	b := arg(ctx, "listB")
	if a.Tag != VTList {
		return Value{}, typeErr(a, self, ctx, "First argument must be a list")
	}
	if b.Tag != VTList {
		return Value{}, typeErr(b, self, ctx, "Second argument must be a list")
	}
	ia, ib := a.ListItems(), b.ListItems()
	out := make([]Value, 0, len(ia)+len(ib))
	out = append(out, ia...)
	out = append(out, ib...)
	return NewList(out), nil
}

func builtinLen(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	v := arg(ctx, "value")
	switch v.Tag {
	case VTList:
		return NewNumber(float64(len(v.ListItems()))), nil
	case VTString:
		return NewNumber(float64(len(v.Str()))), nil
	}
	return Value{}, typeErr(v, self, ctx, "Argument must be a list or a string")
}

func builtinStr(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	return NewString(DisplayValue(arg(ctx, "value"))), nil
}

func builtinNum(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	v := arg(ctx, "value")
	switch v.Tag {
	case VTNumber:
		return v, nil
	case VTString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return Value{}, typeErr(v, self, ctx, fmt.Sprintf("Could not convert %q to a number", v.Str()))
		}
		return NewNumber(f), nil
	}
	return Value{}, typeErr(v, self, ctx, "Argument must be a number or a string")
}

func builtinAbs(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	v := arg(ctx, "value")
	if v.Tag != VTNumber {
		return Value{}, typeErr(v, self, ctx, "Argument must be a number")
	}
	return NewNumber(math.Abs(v.Num())), nil
}

// builtinRun loads and executes another script in a fresh global scope, with
// the same capabilities as the calling interpreter.
func builtinRun(ip *Interpreter, self Value, ctx *Context) (Value, *RuntimeError) {
	v := arg(ctx, "filename")
	if v.Tag != VTString {
		return Value{}, typeErr(v, self, ctx, "Argument must be a string")
	}
	filename := v.Str()

	src, err := os.ReadFile(filename)
	if err != nil {
		return Value{}, typeErr(v, self, ctx, fmt.Sprintf("Failed to load script %q: %v", filename, err))
	}

	if _, rerr := ip.Run(filename, string(src)); rerr != nil {
		return Value{}, typeErr(v, self, ctx, fmt.Sprintf("Failed to finish executing script %q:\n%s", filename, Pretty(rerr)))
	}
	return Null(), nil
}
