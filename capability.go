// capability.go: the host-side extension points behind EMBED and AI.
//
// The interpreter never talks to a provider directly; it goes through these
// two small interfaces so hosts can plug in anything from an in-process stub
// to an HTTP gateway (see httpmodel.go).
package sentience

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"sync"
)

// Embedder turns text into a vector under a named model. model is always
// non-empty; the interpreter substitutes "default" when a script omits WITH.
type Embedder interface {
	Embed(text, model string) ([]float64, error)
}

// ModelInvoker runs a named model with scalar arguments (float64 or string)
// and returns a provider-native result the interpreter coerces into a
// language value.
type ModelInvoker interface {
	InvokeModel(model string, args []any) (any, error)
}

// LocalEmbedderDims is the vector width of the in-process embedder.
const LocalEmbedderDims = 8

// LocalEmbedder is a deterministic, dependency-free embedder: it hashes
// character trigrams into a fixed number of buckets and L2-normalizes the
// result. Equal inputs always produce equal vectors, which is what the tests
// and the default offline experience need; it makes no claim to semantic
// quality.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder creates a LocalEmbedder with the default width.
func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{dims: LocalEmbedderDims}
}

// Embed implements Embedder. The model name participates in the hash, so
// distinct models give distinct vectors for the same text.
func (e *LocalEmbedder) Embed(text, model string) ([]float64, error) {
	vec := make([]float64, e.dims)

	seed := fnv.New32a()
	seed.Write([]byte(model))
	base := seed.Sum32()

	for i := 0; i+3 <= len(text); i++ {
		h := fnv.New32a()
		h.Write([]byte(text[i : i+3]))
		sum := h.Sum32() ^ base
		vec[sum%uint32(e.dims)] += 1
	}
	if len(text) < 3 {
		h := fnv.New32a()
		h.Write([]byte(text))
		vec[(h.Sum32()^base)%uint32(e.dims)] += 1
	}

	var norm float64
	for _, f := range vec {
		norm += f * f
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// ModelFunc is an in-process model implementation.
type ModelFunc func(args []any) (any, error)

// ModelRegistry is a ModelInvoker backed by a name-to-function map. It is
// safe for concurrent use.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[string]ModelFunc
}

// NewModelRegistry creates an empty registry.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{models: make(map[string]ModelFunc)}
}

// Register binds name to fn, replacing any previous binding.
func (r *ModelRegistry) Register(name string, fn ModelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[name] = fn
}

// Names returns the registered model names, sorted.
func (r *ModelRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for n := range r.models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InvokeModel implements ModelInvoker.
func (r *ModelRegistry) InvokeModel(model string, args []any) (any, error) {
	r.mu.RLock()
	fn, ok := r.models[model]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("model %q is not registered", model)
	}
	return fn(args)
}
