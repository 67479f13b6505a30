// Package corpus loads the document set that feeds the retrieval indexes.
package corpus

import (
	"fmt"
	"path/filepath"

	"fusego/src/fsutil"
)

// Document is one corpus entry. Immutable once loaded: chunkers and indexes
// read it, nothing mutates it.
type Document struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Loader enumerates documents from a corpus directory.
type Loader struct {
	fs   fsutil.FileStore
	exts []string
}

// NewLoader creates a Loader reading through the given file store. By default
// only .txt and .md files are picked up.
func NewLoader(fs fsutil.FileStore, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:   fs,
		exts: []string{".txt", ".md"},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type LoaderOption func(*Loader)

// WithExtensions overrides the file extensions considered part of the corpus.
func WithExtensions(exts ...string) LoaderOption {
	return func(l *Loader) {
		l.exts = exts
	}
}

// Load walks root and returns one Document per matching file. The document ID
// is the slash-separated path relative to root, which keeps IDs stable across
// machines.
func (l *Loader) Load(root string) ([]Document, error) {
	paths, err := l.fs.ListFiles(root, l.exts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus files: %w", err)
	}

	docs := make([]Document, 0, len(paths))
	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		content, err := l.fs.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", rel, err)
		}
		docs = append(docs, Document{
			ID:      rel,
			Path:    full,
			Content: string(content),
		})
	}

	return docs, nil
}
