// Package mathutil provides the similarity metrics used for dense retrieval.
//
// All functions treat vectors as []float32 (the engine wire format) and
// accumulate in float64. Each metric comes in a scalar form (one document
// vector) and a batch form (one score per document row).
package mathutil

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroVector is returned when an operand has zero norm. Embeddings from a
// real model are never exactly zero, so callers hitting this have a data
// problem upstream.
var ErrZeroVector = errors.New("mathutil: zero-norm vector")

// ErrDimensionMismatch is returned when the query and document dimensions
// differ.
var ErrDimensionMismatch = errors.New("mathutil: dimension mismatch")

// CosineSimilarity returns the cosine of the angle between query and doc.
// Both vectors must be non-zero and share the same dimension.
func CosineSimilarity(query, doc []float32) (float64, error) {
	if len(query) != len(doc) {
		return 0, fmt.Errorf("%w: query dim %d, doc dim %d", ErrDimensionMismatch, len(query), len(doc))
	}

	var dot, qNorm, dNorm float64
	for i := range query {
		q := float64(query[i])
		d := float64(doc[i])
		dot += q * d
		qNorm += q * q
		dNorm += d * d
	}

	if qNorm == 0 || dNorm == 0 {
		return 0, ErrZeroVector
	}

	return dot / (math.Sqrt(qNorm) * math.Sqrt(dNorm)), nil
}

// CosineSimilarityBatch returns one cosine score per document row.
func CosineSimilarityBatch(query []float32, docs [][]float32) ([]float64, error) {
	scores := make([]float64, len(docs))
	for i, doc := range docs {
		score, err := CosineSimilarity(query, doc)
		if err != nil {
			return nil, fmt.Errorf("doc %d: %w", i, err)
		}
		scores[i] = score
	}
	return scores, nil
}

// DotProduct returns the unnormalized dot product between query and doc.
// Larger is better.
func DotProduct(query, doc []float32) (float64, error) {
	if len(query) != len(doc) {
		return 0, fmt.Errorf("%w: query dim %d, doc dim %d", ErrDimensionMismatch, len(query), len(doc))
	}

	var dot float64
	for i := range query {
		dot += float64(query[i]) * float64(doc[i])
	}
	return dot, nil
}

// DotProductBatch returns one dot product score per document row.
func DotProductBatch(query []float32, docs [][]float32) ([]float64, error) {
	scores := make([]float64, len(docs))
	for i, doc := range docs {
		score, err := DotProduct(query, doc)
		if err != nil {
			return nil, fmt.Errorf("doc %d: %w", i, err)
		}
		scores[i] = score
	}
	return scores, nil
}

// EuclideanDistance returns the L2 distance between query and doc. Smaller is
// better.
func EuclideanDistance(query, doc []float32) (float64, error) {
	if len(query) != len(doc) {
		return 0, fmt.Errorf("%w: query dim %d, doc dim %d", ErrDimensionMismatch, len(query), len(doc))
	}

	var sum float64
	for i := range query {
		d := float64(query[i]) - float64(doc[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// EuclideanDistanceBatch returns one L2 distance per document row.
func EuclideanDistanceBatch(query []float32, docs [][]float32) ([]float64, error) {
	scores := make([]float64, len(docs))
	for i, doc := range docs {
		score, err := EuclideanDistance(query, doc)
		if err != nil {
			return nil, fmt.Errorf("doc %d: %w", i, err)
		}
		scores[i] = score
	}
	return scores, nil
}
