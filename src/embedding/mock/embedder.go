// Package mock provides test doubles for the embedding capability.
package mock

import (
	"context"
	"hash/fnv"
	"sync"
)

// Embedder is a test double for embedding.Embedder. Behavior can be injected
// via function fields; by default it produces deterministic vectors derived
// from a hash of the text, so identical texts always embed identically.
type Embedder struct {
	// EmbedFunc is called by Embed if set.
	EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dim is the dimension of generated vectors. Defaults to 8.
	Dim int

	mu        sync.Mutex
	calls     int
	textsSeen int
}

// NewEmbedder creates a mock embedder with default deterministic behavior.
func NewEmbedder() *Embedder {
	return &Embedder{Dim: 8}
}

// Embed generates one deterministic vector per text.
func (m *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.textsSeen += len(texts)
	m.mu.Unlock()

	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, m.Dim)
	}
	return vectors, nil
}

// EmbedQuery embeds a single text.
func (m *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimension returns the configured vector dimension.
func (m *Embedder) Dimension() int {
	return m.Dim
}

// Calls returns the number of Embed invocations.
func (m *Embedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// TextsSeen returns the total number of texts passed to Embed.
func (m *Embedder) TextsSeen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textsSeen
}

// deterministicVector derives a stable non-zero vector from text via an FNV
// seed and an LCG.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000)/1000.0 + 0.001
	}
	return vector
}
