package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fusego/src/embedding"
	"fusego/src/fsutil"
	"fusego/src/log"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Chunk and embed the corpus into the vector index",
	Long: `The index command loads the corpus directory, splits every document
with the selected chunking strategy, embeds the chunks and stores them in
Weaviate. Unchanged corpora are skipped via the corpus cache; unchanged
chunks are served from the embedding cache.`,
	Run: RunIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringP("strategy", "s", "fixed", "Chunking strategy: fixed, recursive, semantic, contextual")
	indexCmd.Flags().Bool("force", false, "Re-embed even if the corpus is unchanged")
}

func RunIndex(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	strategy, _ := cmd.Flags().GetString("strategy")
	force, _ := cmd.Flags().GetBool("force")

	codec, err := newCodec()
	if err != nil {
		log.Error(err, "Failed to load tokenizer")
		return
	}
	provider := newProvider(codec)
	store := newStore()
	fs := fsutil.NewLocalFileStore()

	docs, err := loadCorpus(fs)
	if err != nil {
		log.Error(err, "Failed to load corpus")
		return
	}
	log.Info("Loaded corpus", "documents", len(docs))

	cacheDir := viper.GetString("cache.dir")
	if err := fs.MakeDirectory(cacheDir); err != nil {
		log.Error(err, "Failed to create cache directory", "dir", cacheDir)
		return
	}

	collection := viper.GetString("weaviate.collection")
	corpusCache := embedding.NewCorpusCache(fs, cacheDir)

	if !force {
		needs, err := corpusCache.NeedsEmbedding(ctx, store, collection, docs)
		if err != nil {
			log.Error(err, "Failed to check corpus cache")
			return
		}
		if !needs {
			log.Info("Corpus unchanged, nothing to do", "collection", collection)
			return
		}
	}

	splitter, err := newChunker(strategy, codec, provider, provider)
	if err != nil {
		log.Error(err, "Failed to build chunker", "strategy", strategy)
		return
	}

	var texts []string
	var ids []string
	var metadata []map[string]interface{}

	for _, doc := range docs {
		chunks, err := splitter.Chunk(ctx, doc.Content, doc.ID)
		if err != nil {
			log.Error(err, "Failed to chunk document", "doc_id", doc.ID)
			return
		}
		for _, ch := range chunks {
			texts = append(texts, ch.Text)
			ids = append(ids, ch.ChunkID)
			metadata = append(metadata, map[string]interface{}{
				"docId":   ch.DocID,
				"chunkId": ch.ChunkID,
				"content": ch.Text,
				"method":  string(ch.Method),
			})
		}
	}
	log.Info("Chunked corpus", "strategy", strategy, "chunks", len(ids))

	if err := store.CreateCollection(ctx, collection, provider.Dimension()); err != nil {
		log.Error(err, "Failed to create collection", "collection", collection)
		return
	}

	embedder := embedding.NewCachingEmbedder(provider, fs, cacheDir)
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		log.Error(err, "Failed to embed chunks")
		return
	}

	if err := store.AddVectors(ctx, collection, vectors, ids, metadata); err != nil {
		log.Error(err, "Failed to store vectors", "collection", collection)
		return
	}

	if err := corpusCache.MarkEmbedded(collection, docs, len(ids)); err != nil {
		log.Error(err, "Failed to update corpus cache")
		return
	}
	if err := embedder.Flush(); err != nil {
		log.Error(err, "Failed to flush embedding cache")
		return
	}

	log.Info("Indexing complete", "collection", collection, "vectors", len(ids))
}
