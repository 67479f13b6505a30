// Package embedding defines the embedding capability consumed by the
// retrieval core, plus the hash-keyed caches that avoid redundant calls.
package embedding

import "context"

// Embedder produces dense vectors for texts. Implementations talk to an
// external model; the core only depends on this interface.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery returns the vector for a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the fixed output dimension of the model.
	Dimension() int
}
