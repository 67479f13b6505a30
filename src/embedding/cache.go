package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"fusego/src/fsutil"
	"fusego/src/log"
)

// hashKeyLen truncates the SHA-256 hex digest; 16 hex chars (64 bits) is
// plenty against collisions at corpus scale.
const hashKeyLen = 16

const cacheFileName = "chunk_embeddings.json"

// CachingEmbedder wraps an Embedder with a content-hash-keyed vector cache.
// Texts whose hash was seen before are served from memory; only the misses go
// to the underlying embedder. The cache persists as a JSON key->vector file;
// an unreadable file degrades to an empty cache, never a failure.
type CachingEmbedder struct {
	inner Embedder
	fs    fsutil.FileStore
	path  string

	mu      sync.Mutex
	vectors map[string][]float32
	dirty   bool
}

// NewCachingEmbedder loads any existing cache file from cacheDir and returns
// a caching wrapper around inner.
func NewCachingEmbedder(inner Embedder, fs fsutil.FileStore, cacheDir string) *CachingEmbedder {
	c := &CachingEmbedder{
		inner:   inner,
		fs:      fs,
		path:    filepath.Join(cacheDir, cacheFileName),
		vectors: make(map[string][]float32),
	}
	c.load()
	return c
}

func (c *CachingEmbedder) load() {
	if !c.fs.Exists(c.path) {
		return
	}

	data, err := c.fs.ReadFile(c.path)
	if err != nil {
		log.Error(err, "failed to read embedding cache, starting empty", "path", c.path)
		return
	}

	var vectors map[string][]float32
	if err := json.Unmarshal(data, &vectors); err != nil {
		log.Error(err, "embedding cache is corrupt, starting empty", "path", c.path)
		return
	}
	c.vectors = vectors
}

// HashKey returns the cache key for a text.
func HashKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:hashKeyLen]
}

// Embed returns vectors for texts, calling the underlying embedder only for
// cache misses. Results always come back in input order.
func (c *CachingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int

	c.mu.Lock()
	for i, text := range texts {
		if vec, ok := c.vectors[HashKey(text)]; ok {
			results[i] = vec
		} else {
			missTexts = append(missTexts, text)
			missIdx = append(missIdx, i)
		}
	}
	c.mu.Unlock()

	if len(missTexts) == 0 {
		return results, nil
	}

	log.Debug("embedding cache misses", "total", len(texts), "misses", len(missTexts))

	vectors, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed uncached texts: %w", err)
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(missTexts))
	}

	c.mu.Lock()
	for j, vec := range vectors {
		results[missIdx[j]] = vec
		c.vectors[HashKey(missTexts[j])] = vec
		c.dirty = true
	}
	c.mu.Unlock()

	return results, nil
}

// EmbedQuery embeds a single text through the cache.
func (c *CachingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimension returns the underlying embedder's dimension.
func (c *CachingEmbedder) Dimension() int {
	return c.inner.Dimension()
}

// Flush persists the cache to disk if any new vectors were added since the
// last flush.
func (c *CachingEmbedder) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := json.Marshal(c.vectors)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding cache: %w", err)
	}
	if err := c.fs.WriteFile(c.path, data); err != nil {
		return fmt.Errorf("failed to write embedding cache: %w", err)
	}

	c.dirty = false
	return nil
}

// Len returns the number of cached vectors.
func (c *CachingEmbedder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.vectors)
}
