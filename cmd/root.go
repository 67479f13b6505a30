package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fusego",
	Short: "Hybrid document retrieval over a local corpus",
	Long: `fusego indexes a directory of text documents into dense and keyword
indexes and answers queries by fusing both rankings. Embeddings and
completions come from a local Ollama instance; vectors live in Weaviate.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	settingDefaultConfig()
}
