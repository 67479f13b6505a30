package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fusego/src/mathutil"
)

type memoryEntry struct {
	id       string
	vector   []float32
	metadata map[string]interface{}
}

type memoryCollection struct {
	dim     int
	entries []memoryEntry
	byID    map[string]int
}

// Memory is an exact cosine-similarity Index held in process memory. It backs
// the chunk evaluator and tests; production search goes through the
// weaviate-backed implementation.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memoryCollection)}
}

var _ Index = (*Memory)(nil)

func (m *Memory) CreateCollection(_ context.Context, name string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid collection dimension %d", dim)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-creation replaces the previous contents.
	m.collections[name] = &memoryCollection{
		dim:  dim,
		byID: make(map[string]int),
	}
	return nil
}

func (m *Memory) AddVectors(_ context.Context, name string, vectors [][]float32, ids []string, metadata []map[string]interface{}) error {
	if len(vectors) != len(ids) {
		return fmt.Errorf("%w: %d vectors, %d ids", ErrLengthMismatch, len(vectors), len(ids))
	}
	if metadata != nil && len(metadata) != len(ids) {
		return fmt.Errorf("%w: %d metadata entries, %d ids", ErrLengthMismatch, len(metadata), len(ids))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}

	for i, vec := range vectors {
		if len(vec) != coll.dim {
			return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), coll.dim)
		}

		var meta map[string]interface{}
		if metadata != nil {
			meta = metadata[i]
		}

		entry := memoryEntry{id: ids[i], vector: vec, metadata: meta}
		if pos, exists := coll.byID[ids[i]]; exists {
			coll.entries[pos] = entry
		} else {
			coll.byID[ids[i]] = len(coll.entries)
			coll.entries = append(coll.entries, entry)
		}
	}

	return nil
}

func (m *Memory) Search(_ context.Context, name string, query []float32, topK int, filters map[string]interface{}) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	if len(query) != coll.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), coll.dim)
	}

	hits := make([]Hit, 0, len(coll.entries))
	for _, entry := range coll.entries {
		if !matchesFilters(entry.metadata, filters) {
			continue
		}
		score, err := mathutil.CosineSimilarity(query, entry.vector)
		if err != nil {
			return nil, fmt.Errorf("failed to score vector %s: %w", entry.id, err)
		}
		hits = append(hits, Hit{ID: entry.id, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topK >= 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func matchesFilters(metadata, filters map[string]interface{}) bool {
	for key, want := range filters {
		if metadata == nil || metadata[key] != want {
			return false
		}
	}
	return true
}

func (m *Memory) CollectionExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.collections[name]
	return ok, nil
}

func (m *Memory) DeleteCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, name)
	return nil
}

func (m *Memory) Count(_ context.Context, name string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.collections[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return len(coll.entries), nil
}

func (m *Memory) GetVector(_ context.Context, name, id string) ([]float32, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.collections[name]
	if !ok {
		return nil, false, nil
	}
	pos, ok := coll.byID[id]
	if !ok {
		return nil, false, nil
	}
	return coll.entries[pos].vector, true, nil
}

func (m *Memory) GetMetadata(_ context.Context, name, id string) (map[string]interface{}, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.collections[name]
	if !ok {
		return nil, false, nil
	}
	pos, ok := coll.byID[id]
	if !ok {
		return nil, false, nil
	}
	return coll.entries[pos].metadata, true, nil
}
