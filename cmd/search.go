package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fusego/src/embedding"
	"fusego/src/fsutil"
	"fusego/src/log"
	"fusego/src/retrieval"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a hybrid search against the indexed corpus",
	Long: `The search command embeds the query, searches the vector index,
scores the corpus with BM25, and fuses both rankings with reciprocal rank
fusion.`,
	Args: cobra.ExactArgs(1),
	Run:  RunSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("top-k", "k", 5, "Number of results")
	searchCmd.Flags().Float64P("alpha", "a", -1, "Vector weight in [0,1]; negative uses the configured default")
	searchCmd.Flags().StringP("strategy", "s", "fixed", "Chunking strategy the corpus was indexed with")
}

func RunSearch(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	query := args[0]
	topK, _ := cmd.Flags().GetInt("top-k")
	alpha, _ := cmd.Flags().GetFloat64("alpha")
	if alpha < 0 {
		alpha = viper.GetFloat64("fusion.alpha")
	}

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

	embedder := embedding.NewCachingEmbedder(provider, fs, viper.GetString("cache.dir"))

	// BM25 scores the same chunk snapshot the vector index was built from,
	// so both rankings speak in chunk ids and fusion can match them up.
	strategy, _ := cmd.Flags().GetString("strategy")
	chunkDocs, err := chunkCorpus(ctx, strategy, codec, embedder, provider, docs)
	if err != nil {
		log.Error(err, "Failed to chunk corpus", "strategy", strategy)
		return
	}
	bm25 := retrieval.NewBM25()
	if err := bm25.Index(chunkDocs); err != nil {
		log.Error(err, "Failed to build keyword index")
		return
	}

	vector := retrieval.NewVectorRetriever(embedder, store, viper.GetString("weaviate.collection"))

	hybrid, err := retrieval.NewHybrid(vector, bm25, alpha, viper.GetInt("fusion.k"))
	if err != nil {
		log.Error(err, "Invalid fusion parameters")
		return
	}

	results, err := hybrid.Search(ctx, query, topK)
	if err != nil {
		log.Error(err, "Search failed")
		return
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, r := range results {
		fmt.Printf("%2d. %-40s %.6f\n", i+1, r.ID, r.Score)
	}
}
