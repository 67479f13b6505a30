package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fusego/src/fsutil"
	"fusego/src/log"
	"fusego/src/summarize"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Build a hierarchical summary of the whole corpus",
	Long: `The summarize command summarizes every document, merges the
summaries in batches level by level until one remains, and finishes with an
executive summary. The result is written as a JSON artifact.`,
	Run: RunSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringP("output", "o", "", "Artifact file path (default <cache.dir>/summary_<uuid>.json)")
}

func RunSummarize(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	output, _ := cmd.Flags().GetString("output")

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
	log.Info("Summarizing corpus", "documents", len(docs))

	summarizer := summarize.New(provider, codec,
		summarize.WithBatchSize(viper.GetInt("summarize.batch_size")),
		summarize.WithConcurrency(viper.GetInt("llm.max_concurrent")),
		summarize.WithCallTimeout(viper.GetDuration("llm.call_timeout")),
		summarize.WithSplitter(provider, summarize.DefaultMaxDocTokens),
	)

	result, err := summarizer.Summarize(ctx, docs)
	if err != nil {
		log.Error(err, "Summarization failed")
		return
	}

	cacheDir := viper.GetString("cache.dir")
	if err := fs.MakeDirectory(cacheDir); err != nil {
		log.Error(err, "Failed to create cache directory", "dir", cacheDir)
		return
	}
	if output == "" {
		output = filepath.Join(cacheDir, fmt.Sprintf("summary_%s.json", uuid.NewString()))
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Error(err, "Failed to encode summary")
		return
	}
	if err := fs.WriteFile(output, data); err != nil {
		log.Error(err, "Failed to write artifact", "path", output)
		return
	}

	log.Info("Summary complete",
		"reduce_levels", result.ReduceLevels,
		"tokens", result.Usage.Total(),
		"artifact", output)
	fmt.Println(result.ExecutiveSummary)
}
