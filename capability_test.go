// capability_test.go
package sentience

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_LocalEmbedder_Deterministic(t *testing.T) {
	e := NewLocalEmbedder()
	a, err := e.Embed("the quick brown fox", "default")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed("the quick brown fox", "default")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same input, different vectors:\n%s", diff)
	}
	if len(a) != LocalEmbedderDims {
		t.Fatalf("vector width = %d", len(a))
	}
}

func Test_LocalEmbedder_Normalized(t *testing.T) {
	e := NewLocalEmbedder()
	vec, err := e.Embed("normalize me", "default")
	if err != nil {
		t.Fatal(err)
	}
	var norm float64
	for _, f := range vec {
		norm += f * f
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Fatalf("squared norm = %v", norm)
	}
}

func Test_LocalEmbedder_ModelChangesVector(t *testing.T) {
	e := NewLocalEmbedder()
	a, _ := e.Embed("same text", "alpha")
	b, _ := e.Embed("same text", "beta")
	if cmp.Equal(a, b) {
		t.Fatal("distinct models produced identical vectors")
	}
}

func Test_LocalEmbedder_ShortInput(t *testing.T) {
	e := NewLocalEmbedder()
	vec, err := e.Embed("ab", "default")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, f := range vec {
		sum += f * f
	}
	if sum == 0 {
		t.Fatal("short input produced a zero vector")
	}
}

func Test_ModelRegistry_RegisterAndInvoke(t *testing.T) {
	reg := NewModelRegistry()
	reg.Register("echo", func(args []any) (any, error) { return args[0], nil })
	reg.Register("answer", func(args []any) (any, error) { return 42.0, nil })

	out, err := reg.InvokeModel("echo", []any{"hello"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello" {
		t.Fatalf("echo = %v", out)
	}

	if diff := cmp.Diff([]string{"answer", "echo"}, reg.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}

func Test_ModelRegistry_UnknownModel(t *testing.T) {
	_, err := NewModelRegistry().InvokeModel("ghost", nil)
	if err == nil {
		t.Fatal("expected error for unregistered model")
	}
}
