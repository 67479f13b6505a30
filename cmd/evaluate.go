package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fusego/src/chunker"
	"fusego/src/embedding"
	"fusego/src/fsutil"
	"fusego/src/log"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compare chunking strategies against a probe query",
	Long: `The evaluate command chunks the corpus with each selected strategy,
embeds the chunks, ranks them against the probe query by cosine similarity,
and writes a JSON report with per-strategy size statistics and top matches.`,
	Run: RunEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringP("query", "q", "", "Probe query to rank chunks against")
	evaluateCmd.MarkFlagRequired("query")
	evaluateCmd.Flags().String("strategies", "fixed,recursive,semantic", "Comma-separated strategies to compare")
	evaluateCmd.Flags().IntP("top-k", "k", 5, "Matches to keep per strategy")
	evaluateCmd.Flags().StringP("output", "o", "", "Report file path (default <cache.dir>/evaluation_<runid>.json)")
}

// evaluationReport is the JSON artifact one evaluate run produces.
type evaluationReport struct {
	RunID      string            `json:"run_id"`
	Query      string            `json:"query"`
	Strategies []*chunker.Report `json:"strategies"`
}

func RunEvaluate(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	query, _ := cmd.Flags().GetString("query")
	topK, _ := cmd.Flags().GetInt("top-k")
	output, _ := cmd.Flags().GetString("output")
	strategiesFlag, _ := cmd.Flags().GetString("strategies")
	strategies := strings.Split(strategiesFlag, ",")

	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Error(err, "Failed to create run id generator")
		return
	}
	runID := node.Generate().String()

	codec, err := newCodec()
	if err != nil {
		log.Error(err, "Failed to load tokenizer")
		return
	}
	provider := newProvider(codec)
	fs := fsutil.NewLocalFileStore()

	docs, err := loadCorpus(fs)
	if err != nil {
		log.Error(err, "Failed to load corpus")
		return
	}

	cacheDir := viper.GetString("cache.dir")
	if err := fs.MakeDirectory(cacheDir); err != nil {
		log.Error(err, "Failed to create cache directory", "dir", cacheDir)
		return
	}
	embedder := embedding.NewCachingEmbedder(provider, fs, cacheDir)
	evaluator := chunker.NewEvaluator(embedder)

	bar := progressbar.Default(int64(len(strategies)*len(docs)), "evaluating")

	report := evaluationReport{RunID: runID, Query: query}
	for _, strategy := range strategies {
		strategy = strings.TrimSpace(strategy)

		splitter, err := newChunker(strategy, codec, embedder, provider)
		if err != nil {
			log.Error(err, "Skipping unknown strategy", "strategy", strategy)
			continue
		}

		var chunks []chunker.Chunk
		for _, doc := range docs {
			docChunks, err := splitter.Chunk(ctx, doc.Content, doc.ID)
			if err != nil {
				log.Error(err, "Failed to chunk document", "strategy", strategy, "doc_id", doc.ID)
				return
			}
			chunks = append(chunks, docChunks...)
			bar.Add(1)
		}

		result, err := evaluator.Evaluate(ctx, chunker.Method(strategy), chunks, query, topK)
		if err != nil {
			log.Error(err, "Evaluation failed", "strategy", strategy)
			return
		}
		report.Strategies = append(report.Strategies, result)
	}

	if err := embedder.Flush(); err != nil {
		log.Error(err, "Failed to flush embedding cache")
	}

	if output == "" {
		output = filepath.Join(cacheDir, fmt.Sprintf("evaluation_%s.json", runID))
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Error(err, "Failed to encode report")
		return
	}
	if err := fs.WriteFile(output, data); err != nil {
		log.Error(err, "Failed to write report", "path", output)
		return
	}

	fmt.Printf("Run %s: evaluated %d strategies, report at %s\n", runID, len(report.Strategies), output)
}
