package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"fusego/src/chunker"
	"fusego/src/corpus"
	"fusego/src/embedding"
	"fusego/src/fsutil"
	"fusego/src/llm"
	"fusego/src/ollama"
	"fusego/src/storage/weaviate"
	"fusego/src/token"
)

// newCodec loads the cl100k_base tokenizer shared by every command.
func newCodec() (token.Codec, error) {
	return token.NewCL100K()
}

// newProvider builds the Ollama-backed embedder/completer from config.
func newProvider(codec token.Codec) *ollama.Provider {
	client := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: viper.GetDuration("llm.call_timeout") + 30*time.Second,
	})
	return ollama.NewProvider(
		client,
		viper.GetString("ollama.embed_model"),
		viper.GetString("ollama.llm_model"),
		viper.GetInt("ollama.embed_dim"),
		codec,
	)
}

// newStore builds the Weaviate-backed vector index from config.
func newStore() *weaviate.Store {
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	return weaviate.NewStore(wc)
}

// loadCorpus reads the configured corpus directory.
func loadCorpus(fs fsutil.FileStore) ([]corpus.Document, error) {
	dir := viper.GetString("corpus.dir")
	docs, err := corpus.NewLoader(fs).Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus from %s: %w", dir, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", dir)
	}
	return docs, nil
}

// chunkCorpus splits every document with the named strategy and returns the
// chunks as documents keyed by chunk id, the shape the keyword index takes.
func chunkCorpus(ctx context.Context, strategy string, codec token.Codec, embedder embedding.Embedder, completer llm.Completer, docs []corpus.Document) ([]corpus.Document, error) {
	splitter, err := newChunker(strategy, codec, embedder, completer)
	if err != nil {
		return nil, err
	}

	var out []corpus.Document
	for _, doc := range docs {
		chunks, err := splitter.Chunk(ctx, doc.Content, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk %s: %w", doc.ID, err)
		}
		for _, ch := range chunks {
			out = append(out, corpus.Document{ID: ch.ChunkID, Path: doc.Path, Content: ch.Text})
		}
	}
	return out, nil
}

// newChunker builds the strategy named by the CLI flag.
func newChunker(strategy string, codec token.Codec, embedder embedding.Embedder, completer llm.Completer) (chunker.Chunker, error) {
	size := viper.GetInt("chunk.size")
	overlap := viper.GetInt("chunk.overlap")

	switch chunker.Method(strategy) {
	case chunker.MethodFixed:
		return chunker.NewFixedChunker(codec, size, overlap)
	case chunker.MethodRecursive:
		return chunker.NewRecursiveChunker(codec, size, overlap)
	case chunker.MethodSemantic:
		return chunker.NewSemanticChunker(embedder, codec, size, viper.GetFloat64("chunk.semantic_threshold"))
	case chunker.MethodContextual:
		c, err := chunker.NewContextualChunker(codec, completer, size, overlap)
		if err != nil {
			return nil, err
		}
		return c.
			WithConcurrency(viper.GetInt("llm.max_concurrent")).
			WithTimeout(viper.GetDuration("llm.call_timeout")), nil
	default:
		return nil, fmt.Errorf("unknown chunking strategy %q", strategy)
	}
}
