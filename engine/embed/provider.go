// Package embed models text embedding as an explicit capability: a Provider
// maps texts to fixed-dimension vectors, and a nil vector is the first-class
// "absent" state every dependent must accept. A missing or failing backend is
// degraded capability, not an error.
package embed

import "context"

// DefaultDimension is the vector width of the default embedding model
// (all-MiniLM-class, 384 floats). Callers never invent dimensions; they ask
// the provider.
const DefaultDimension = 384

// Provider maps texts to embedding vectors. The returned slice always has one
// entry per input; a nil entry means no vector could be produced for that
// input. Embed never returns an error: unavailability is expressed as absent
// vectors.
type Provider interface {
	Embed(ctx context.Context, texts []string) [][]float32
	Dimension() int
}

// Null is the no-op provider selected when no embedding backend is
// configured or its initialization failed. Every call returns all-absent.
type Null struct{}

// Embed returns one nil vector per input.
func (Null) Embed(_ context.Context, texts []string) [][]float32 {
	return make([][]float32, len(texts))
}

// Dimension returns 0: the null provider produces no vectors.
func (Null) Dimension() int { return 0 }
