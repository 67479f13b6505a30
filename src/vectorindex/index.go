// Package vectorindex abstracts nearest-neighbor search over dense vectors
// so the backing engine is swappable. The weaviate-backed implementation
// lives in src/storage/weaviate; Memory is an exact-search implementation for
// evaluation and tests.
package vectorindex

import (
	"context"
	"errors"
)

// Hit is one search result: the caller-supplied vector id and a similarity
// score where larger is better.
type Hit struct {
	ID    string
	Score float64
}

// ErrLengthMismatch is returned by AddVectors when vectors, ids and metadata
// lengths disagree.
var ErrLengthMismatch = errors.New("vectorindex: vectors, ids and metadata lengths must match")

// ErrCollectionNotFound is returned when an operation targets a collection
// that does not exist.
var ErrCollectionNotFound = errors.New("vectorindex: collection not found")

// ErrDimensionMismatch is returned when a vector does not match the
// collection's dimension.
var ErrDimensionMismatch = errors.New("vectorindex: vector dimension does not match collection")

// Index is the dense retrieval capability. All vectors in one collection
// share a dimension fixed at creation; similarity is cosine.
//
// Callers must serialize mutations against searches on the same collection;
// no concurrent-mutation guarantees are part of this contract.
type Index interface {
	// CreateCollection creates a collection, dropping any existing one with
	// the same name first. Rebuild-from-scratch on purpose.
	CreateCollection(ctx context.Context, name string, dim int) error

	// AddVectors batch-inserts vectors under the given ids. metadata may be
	// nil; when present its length must match ids.
	AddVectors(ctx context.Context, name string, vectors [][]float32, ids []string, metadata []map[string]interface{}) error

	// Search returns up to topK hits by descending cosine similarity.
	// filters restricts candidates to vectors whose metadata matches every
	// key equally. Fewer than topK hits is a normal outcome.
	Search(ctx context.Context, name string, query []float32, topK int, filters map[string]interface{}) ([]Hit, error)

	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// DeleteCollection removes a collection and its vectors.
	DeleteCollection(ctx context.Context, name string) error

	// Count returns the number of vectors in the collection.
	Count(ctx context.Context, name string) (int, error)

	// GetVector returns the vector stored under id, with ok=false when the
	// id is absent. Absence is not an error.
	GetVector(ctx context.Context, name, id string) ([]float32, bool, error)

	// GetMetadata returns the metadata stored under id, with ok=false when
	// the id is absent. Absence is not an error.
	GetMetadata(ctx context.Context, name, id string) (map[string]interface{}, bool, error)
}
