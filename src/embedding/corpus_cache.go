package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"fusego/src/corpus"
	"fusego/src/fsutil"
	"fusego/src/log"
	"fusego/src/vectorindex"
)

const corpusCacheFileName = "corpus_cache.json"

type corpusCacheEntry struct {
	ContentHash   string `json:"content_hash"`
	DocumentCount int    `json:"document_count"`
	VectorCount   int    `json:"vector_count"`
}

// CorpusCache tracks, per collection, a hash over the whole corpus so a
// re-run with unchanged documents can skip re-embedding entirely.
type CorpusCache struct {
	fs   fsutil.FileStore
	path string
}

// NewCorpusCache creates a cache storing its metadata file under cacheDir.
func NewCorpusCache(fs fsutil.FileStore, cacheDir string) *CorpusCache {
	return &CorpusCache{
		fs:   fs,
		path: filepath.Join(cacheDir, corpusCacheFileName),
	}
}

// corpusHash hashes the concatenation of every document's content plus the
// document count, so both edits and additions/removals invalidate it.
func corpusHash(docs []corpus.Document) string {
	h := sha256.New()
	for _, doc := range docs {
		h.Write([]byte(doc.Content))
	}
	h.Write([]byte(strconv.Itoa(len(docs))))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CorpusCache) loadAll() map[string]corpusCacheEntry {
	entries := make(map[string]corpusCacheEntry)
	if !c.fs.Exists(c.path) {
		return entries
	}

	data, err := c.fs.ReadFile(c.path)
	if err != nil {
		log.Error(err, "failed to read corpus cache, treating as empty", "path", c.path)
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Error(err, "corpus cache is corrupt, treating as empty", "path", c.path)
		return map[string]corpusCacheEntry{}
	}
	return entries
}

// NeedsEmbedding reports whether the corpus must be (re-)embedded into the
// named collection. The collection must exist, hold exactly the vector count
// recorded at the last successful embed, and the stored corpus hash must
// match.
func (c *CorpusCache) NeedsEmbedding(ctx context.Context, idx vectorindex.Index, collection string, docs []corpus.Document) (bool, error) {
	exists, err := idx.CollectionExists(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if !exists {
		return true, nil
	}

	entry, ok := c.loadAll()[collection]
	if !ok {
		return true, nil
	}

	count, err := idx.Count(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to count vectors in %s: %w", collection, err)
	}
	if count != entry.VectorCount {
		return true, nil
	}

	if entry.DocumentCount != len(docs) || entry.ContentHash != corpusHash(docs) {
		return true, nil
	}
	return false, nil
}

// MarkEmbedded records the current corpus hash and the number of vectors the
// embed run produced for the collection.
func (c *CorpusCache) MarkEmbedded(collection string, docs []corpus.Document, vectorCount int) error {
	entries := c.loadAll()
	entries[collection] = corpusCacheEntry{
		ContentHash:   corpusHash(docs),
		DocumentCount: len(docs),
		VectorCount:   vectorCount,
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus cache: %w", err)
	}
	if err := c.fs.WriteFile(c.path, data); err != nil {
		return fmt.Errorf("failed to write corpus cache: %w", err)
	}
	return nil
}
