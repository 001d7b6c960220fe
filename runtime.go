// runtime.go: the evaluation result carrier.
//
// Every evaluation rule returns a Result so that RETURN, CONTINUE and BREAK
// can unwind through enclosing rules without Go-level panics. FuncReturn is a
// pointer rather than a value plus boolean: returning 0, "" or [] from a
// function must still register as an explicit return.
package sentience

// Result carries a value or exactly one unwinding signal out of a rule.
type Result struct {
	Value        Value
	Err          *RuntimeError
	FuncReturn   *Value
	LoopContinue bool
	LoopBreak    bool
}

// Success wraps a plain value.
func Success(v Value) Result { return Result{Value: v} }

// Failure wraps a runtime error.
func Failure(err *RuntimeError) Result { return Result{Err: err} }

// SuccessReturn signals RETURN with the given value.
func SuccessReturn(v Value) Result { return Result{FuncReturn: &v} }

// SuccessContinue signals CONTINUE.
func SuccessContinue() Result { return Result{LoopContinue: true} }

// SuccessBreak signals BREAK.
func SuccessBreak() Result { return Result{LoopBreak: true} }

// ShouldReturn reports whether evaluation must stop unwinding through the
// current rule: an error or any of the three control-flow signals.
func (r Result) ShouldReturn() bool {
	return r.Err != nil || r.FuncReturn != nil || r.LoopContinue || r.LoopBreak
}
