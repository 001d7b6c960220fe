// interpreter_test.go
package sentience

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

// evalLast runs src in a fresh interpreter and returns the value of the last
// top-level statement.
func evalLast(t *testing.T, src string, opts ...Option) Value {
	t.Helper()
	v, err := NewInterpreter(opts...).Run("<test>", src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	items := v.ListItems()
	if len(items) == 0 {
		t.Fatalf("program produced no statements")
	}
	return items[len(items)-1]
}

func wantRuntimeError(t *testing.T, src, wantMsg string, opts ...Option) *RuntimeError {
	t.Helper()
	_, err := NewInterpreter(opts...).Run("<test>", src)
	if err == nil {
		t.Fatalf("expected runtime error for %q", src)
	}
	e, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("want RuntimeError, got %T (%v)", err, err)
	}
	if !strings.Contains(e.Msg, wantMsg) {
		t.Fatalf("error %q does not mention %q", e.Msg, wantMsg)
	}
	return e
}

func wantNum(t *testing.T, v Value, want float64) {
	t.Helper()
	if v.Tag != VTNumber {
		t.Fatalf("want number, got %s (%s)", v.TypeName(), FormatValue(v))
	}
	if v.Num() != want {
		t.Fatalf("want %v, got %v", want, v.Num())
	}
}

func wantStr(t *testing.T, v Value, want string) {
	t.Helper()
	if v.Tag != VTString {
		t.Fatalf("want string, got %s (%s)", v.TypeName(), FormatValue(v))
	}
	if v.Str() != want {
		t.Fatalf("want %q, got %q", want, v.Str())
	}
}

func Test_Interp_Arithmetic(t *testing.T) {
	wantNum(t, evalLast(t, `1 + 2 * 3`), 7)
	wantNum(t, evalLast(t, `2 ^ 3 ^ 2`), 512)
	wantNum(t, evalLast(t, `(1 + 2) * 3`), 9)
	wantNum(t, evalLast(t, `7 / 2`), 3.5)
	wantNum(t, evalLast(t, `-3 + 10`), 7)
}

func Test_Interp_DivisionByZero(t *testing.T) {
	e := wantRuntimeError(t, `10 / 0`, "Division by zero")
	if e.PosStart.Idx != 5 {
		t.Fatalf("error should point at the divisor, got idx %d", e.PosStart.Idx)
	}
}

func Test_Interp_Comparisons(t *testing.T) {
	wantNum(t, evalLast(t, `1 < 2`), 1)
	wantNum(t, evalLast(t, `2 <= 1`), 0)
	wantNum(t, evalLast(t, `3 == 3`), 1)
	wantNum(t, evalLast(t, `3 != 3`), 0)
	wantNum(t, evalLast(t, `1 < 2 AND 2 < 3`), 1)
	wantNum(t, evalLast(t, `0 OR ""`), 0)
	wantNum(t, evalLast(t, `NOT 0`), 1)
}

func Test_Interp_VarReadWrite(t *testing.T) {
	wantNum(t, evalLast(t, "VAR x = 5\nVAR x = x + 1\nx"), 6)
}

func Test_Interp_UndefinedVariable(t *testing.T) {
	wantRuntimeError(t, `missing`, "'missing' is not defined")
}

func Test_Interp_Strings(t *testing.T) {
	wantStr(t, evalLast(t, `"foo" + "bar"`), "foobar")
	wantStr(t, evalLast(t, `"ab" * 3`), "ababab")
	wantStr(t, evalLast(t, `"hello" / 1`), "e")
	wantNum(t, evalLast(t, `"a" == "a"`), 1)
	wantNum(t, evalLast(t, `"a" != "b"`), 1)
}

func Test_Interp_StringNumberPlusIsIllegal(t *testing.T) {
	wantRuntimeError(t, `"a" + 1`, "Illegal operation")
}

func Test_Interp_Lists(t *testing.T) {
	v := evalLast(t, `[1, 2] + 3`)
	if FormatValue(v) != "[1, 2, 3]" {
		t.Fatalf("append result = %s", FormatValue(v))
	}
	v = evalLast(t, `[1, 2] * [3, 4]`)
	if FormatValue(v) != "[1, 2, 3, 4]" {
		t.Fatalf("concat result = %s", FormatValue(v))
	}
	wantNum(t, evalLast(t, `[10, 20, 30] / 1`), 20)
	wantNum(t, evalLast(t, `[10, 20, 30] / -1`), 30)
	v = evalLast(t, `[10, 20, 30] - 0`)
	if FormatValue(v) != "[20, 30]" {
		t.Fatalf("remove result = %s", FormatValue(v))
	}
}

func Test_Interp_ListIndexOutOfBounds(t *testing.T) {
	wantRuntimeError(t, `[1] / 5`, "index is out of bounds")
	wantRuntimeError(t, `[1] - 5`, "index is out of bounds")
}

func Test_Interp_ListOperatorsDoNotMutate(t *testing.T) {
	v := evalLast(t, "VAR a = [1, 2]\nVAR b = a + 3\na")
	if FormatValue(v) != "[1, 2]" {
		t.Fatalf("source list changed: %s", FormatValue(v))
	}
}

func Test_Interp_IfElifElse(t *testing.T) {
	wantStr(t, evalLast(t, `IF 1 == 2 THEN "a" ELIF 2 == 2 THEN "b" ELSE "c"`), "b")
	wantStr(t, evalLast(t, `IF 0 THEN "a" ELSE "c"`), "c")
	// No matching arm and no else yields null.
	wantNum(t, evalLast(t, `IF 0 THEN "a"`), 0)
}

func Test_Interp_IfBlockFormYieldsNull(t *testing.T) {
	wantNum(t, evalLast(t, "IF 1 THEN\nVAR x = 5\nEND"), 0)
}

func Test_Interp_ForAccumulation(t *testing.T) {
	src := "VAR total = 0\nFOR i = 1 TO 4 THEN VAR total = total + i\nEND\ntotal"
	wantNum(t, evalLast(t, src), 6) // TO bound is exclusive
}

func Test_Interp_ForDescendingStep(t *testing.T) {
	src := "VAR total = 0\nFOR i = 5 TO 0 STEP -1 THEN VAR total = total + i\nEND\ntotal"
	wantNum(t, evalLast(t, src), 15)
}

func Test_Interp_ForInlineCollectsValues(t *testing.T) {
	v := evalLast(t, "FOR i = 0 TO 3 THEN i * i")
	if FormatValue(v) != "[0, 1, 4]" {
		t.Fatalf("collected = %s", FormatValue(v))
	}
}

func Test_Interp_ForZeroIterations(t *testing.T) {
	src := "VAR n = 0\nFOR i = 5 TO 5 THEN VAR n = n + 1\nEND\nn"
	wantNum(t, evalLast(t, src), 0)
}

func Test_Interp_While(t *testing.T) {
	src := "VAR x = 0\nWHILE x < 10 THEN VAR x = x + 3\nEND\nx"
	wantNum(t, evalLast(t, src), 12)
}

func Test_Interp_BreakAndContinue(t *testing.T) {
	src := `
VAR total = 0
FOR i = 0 TO 10 THEN
IF i == 5 THEN
BREAK
END
IF i == 1 THEN
CONTINUE
END
VAR total = total + i
END
total
`
	wantNum(t, evalLast(t, src), 0+2+3+4)
}

func Test_Interp_BreakStopsAccumulation(t *testing.T) {
	// The break iteration contributes nothing; only the first element lands.
	v := evalLast(t, `FOR i = 0 TO 5 THEN IF i == 1 THEN BREAK ELSE i`)
	if FormatValue(v) != "[0]" {
		t.Fatalf("accumulated = %s", FormatValue(v))
	}
}

func Test_Interp_BreakInWhile(t *testing.T) {
	src := "VAR x = 0\nWHILE 1 THEN\nVAR x = x + 1\nIF x == 4 THEN\nBREAK\nEND\nEND\nx"
	wantNum(t, evalLast(t, src), 4)
}

func Test_Interp_FunctionCallAndReturn(t *testing.T) {
	wantNum(t, evalLast(t, "FUN add(a, b) -> a + b\nadd(2, 40)"), 42)
	src := "FUN f(x)\nIF x > 0 THEN\nRETURN x\nEND\nRETURN -1\nEND\nf(7)"
	wantNum(t, evalLast(t, src), 7)
}

func Test_Interp_ReturnZeroIsStillAReturn(t *testing.T) {
	src := "FUN f()\nRETURN 0\nVAR never = 1\nEND\nf()"
	wantNum(t, evalLast(t, src), 0)
	// The statement after RETURN must not have run.
	src = "VAR ran = 0\nFUN f()\nRETURN 0\nVAR ran = 1\nEND\nf()\nran"
	wantNum(t, evalLast(t, src), 0)
}

func Test_Interp_BareReturnYieldsNull(t *testing.T) {
	wantNum(t, evalLast(t, "FUN f()\nRETURN\nEND\nf()"), 0)
}

func Test_Interp_BlockFunctionWithoutReturnYieldsNull(t *testing.T) {
	wantNum(t, evalLast(t, "FUN f()\nVAR x = 99\nEND\nf()"), 0)
}

func Test_Interp_Closures(t *testing.T) {
	src := `
FUN make()
VAR hidden = 42
FUN get() -> hidden
RETURN get
END
VAR g = make()
g()
`
	wantNum(t, evalLast(t, src), 42)
}

func Test_Interp_ClosureSeesDefiningScopeNotCallers(t *testing.T) {
	src := `
VAR x = 1
FUN get() -> x
FUN call_with_local()
VAR x = 99
RETURN get()
END
call_with_local()
`
	wantNum(t, evalLast(t, src), 1)
}

func Test_Interp_ArgumentsAreLocal(t *testing.T) {
	src := "VAR x = 10\nFUN f(x) -> x * 2\nf(3)\nx"
	wantNum(t, evalLast(t, src), 10)
}

func Test_Interp_Recursion(t *testing.T) {
	src := "FUN fib(n)\nIF n < 2 THEN\nRETURN n\nEND\nRETURN fib(n - 1) + fib(n - 2)\nEND\nfib(10)"
	wantNum(t, evalLast(t, src), 55)
}

func Test_Interp_StackOverflow(t *testing.T) {
	src := "FUN f() -> f()\nf()"
	wantRuntimeError(t, src, "stack overflow", WithMaxCallDepth(64))
}

func Test_Interp_ArityErrors(t *testing.T) {
	e := wantRuntimeError(t, "FUN add(a, b) -> a + b\nadd(1)", "1 too few args passed into 'add'")
	if e.Ctx == nil {
		t.Fatal("arity error should carry a context")
	}
	wantRuntimeError(t, "FUN add(a, b) -> a + b\nadd(1, 2, 3)", "1 too many args passed into 'add'")
}

func Test_Interp_CallingANumberFails(t *testing.T) {
	wantRuntimeError(t, "VAR n = 3\nn(1)", "not callable")
}

func Test_Interp_Pipe(t *testing.T) {
	wantNum(t, evalLast(t, "FUN double(x) -> x * 2\n5 PIPE double"), 10)
	wantNum(t, evalLast(t, "FUN double(x) -> x * 2\n5 PIPE double PIPE double"), 20)
}

func Test_Interp_PipeIntoAnonymousFunction(t *testing.T) {
	wantNum(t, evalLast(t, "5 PIPE (FUN(x) -> x + 1)"), 6)
}

func Test_Interp_PipeRightMustBeCallable(t *testing.T) {
	wantRuntimeError(t, "VAR n = 3\n5 PIPE n", "Expected a function")
	wantRuntimeError(t, "5 PIPE nothing_here", "'nothing_here' is not defined")
}

// Name lookup follows the defining scope even when the call arrives through
// an unrelated frame; only the traceback chain tracks the caller.
func Test_Interp_ClosureScopeSurvivesDeepCallChain(t *testing.T) {
	src := "FUN make()\nVAR n = 41\nFUN get() -> n + 1\nRETURN get\nEND\nFUN call_it(f) -> f()\ncall_it(make())"
	wantNum(t, evalLast(t, src), 42)
}

func Test_Interp_TracebackNamesFrames(t *testing.T) {
	src := "FUN inner()\nRETURN 1 / 0\nEND\nFUN outer()\nRETURN inner()\nEND\nouter()"
	e := wantRuntimeError(t, src, "Division by zero")
	rendered := Pretty(e)
	for _, want := range []string{"Traceback (most recent call last):", "in inner", "in outer", "in <program>"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("traceback missing %q:\n%s", want, rendered)
		}
	}
}

func Test_Interp_PrintGoesToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	v, err := NewInterpreter(WithStdout(&buf)).Run("<test>", `print("hi " + "there")`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	_ = v
	if buf.String() != "hi there\n" {
		t.Fatalf("stdout = %q", buf.String())
	}
}

func Test_Interp_InputReadsConfiguredReader(t *testing.T) {
	in := strings.NewReader("blue\n")
	v, err := NewInterpreter(WithStdin(in)).Run("<test>", `input()`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	wantStr(t, v.ListItems()[0], "blue")
}

func Test_Interp_MathPiConstant(t *testing.T) {
	v := evalLast(t, `math_pi`)
	if v.Tag != VTNumber || math.Abs(v.Num()-math.Pi) > 1e-15 {
		t.Fatalf("math_pi = %s", FormatValue(v))
	}
}
