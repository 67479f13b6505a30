package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "fusego/handler/http"
	"fusego/src/embedding"
	"fusego/src/fsutil"
	"fusego/src/log"
	"fusego/src/retrieval"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hybrid search HTTP API",
	Long: `The serve command starts an HTTP server exposing hybrid search over
the indexed corpus.`,
	Run: RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("strategy", "s", "fixed", "Chunking strategy the corpus was indexed with")
}

func RunServer(cmd *cobra.Command, args []string) {
	ctx := context.Background()

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

	// The keyword index is built once at startup from the same chunk
	// snapshot the vector collection was indexed from.
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
	handler := httpHdlr.NewHandler(vector, bm25,
		viper.GetFloat64("fusion.alpha"),
		viper.GetInt("fusion.k"),
	)

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()
	log.Info("Server started", "port", viper.GetString("server.port"), "chunks", len(chunkDocs))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
