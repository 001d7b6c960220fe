// run_test.go
package sentience

import "testing"

func Test_Run_SingleExpression(t *testing.T) {
	v, err := NewInterpreter().Run("<test>", "1 + 1")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if v.Tag != VTList || len(v.ListItems()) != 1 {
		t.Fatalf("program value = %s", FormatValue(v))
	}
	wantNum(t, v.ListItems()[0], 2)
}

func Test_Run_ContextPersistsAcrossInputs(t *testing.T) {
	ip := NewInterpreter()
	ctx := NewProgramContext()

	if _, err := ip.RunInContext("<stdin>", "VAR x = 10", ctx); err != nil {
		t.Fatalf("first input: %v", err)
	}
	v, err := ip.RunInContext("<stdin>", "x * 2", ctx)
	if err != nil {
		t.Fatalf("second input: %v", err)
	}
	wantNum(t, v.ListItems()[0], 20)
}

func Test_Run_FreshContextsAreIsolated(t *testing.T) {
	ip := NewInterpreter()
	if _, err := ip.Run("<a>", "VAR x = 1"); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.Run("<b>", "x"); err == nil {
		t.Fatal("definitions leaked across Run calls")
	}
}

func Test_NeedsMoreInput(t *testing.T) {
	incomplete := []string{
		"IF 1 THEN",
		"WHILE x THEN\n",
		"FUN f()\nRETURN 1",
		"FOR i = 0 TO 3 THEN\n",
		"1 +",
		`"un终`,
	}
	for _, src := range incomplete {
		if !NeedsMoreInput(src) {
			t.Errorf("NeedsMoreInput(%q) = false, want true", src)
		}
	}

	complete := []string{
		"1 + 2",
		"IF 1 THEN 2 ELSE 3",
		"FUN f() -> 1",
		"IF 1 THEN\nVAR x = 1\nEND",
		// A block IF with no ELIF, ELSE or END closes at the last statement.
		"IF 1 THEN\nVAR x = 1",
		"VAR = 1", // broken, not unfinished
		"1 2",     // trailing garbage, not unfinished
	}
	for _, src := range complete {
		if NeedsMoreInput(src) {
			t.Errorf("NeedsMoreInput(%q) = true, want false", src)
		}
	}
}
