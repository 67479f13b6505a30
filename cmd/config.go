package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for Ollama
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.embed_model", "OLLAMA_EMBED_MODEL")
	viper.BindEnv("ollama.llm_model", "OLLAMA_LLM_MODEL")
	viper.BindEnv("ollama.embed_dim", "OLLAMA_EMBED_DIM")

	// Map environment variables to Viper keys for Weaviate
	viper.BindEnv("weaviate.host", "WEAVIATE_HOST")
	viper.BindEnv("weaviate.scheme", "WEAVIATE_SCHEME")
	viper.BindEnv("weaviate.collection", "WEAVIATE_COLLECTION")

	// Map environment variables to Viper keys for corpus and caches
	viper.BindEnv("corpus.dir", "CORPUS_DIR")
	viper.BindEnv("cache.dir", "CACHE_DIR")

	// Map environment variables to Viper keys for chunking and fusion
	viper.BindEnv("chunk.size", "CHUNK_SIZE")
	viper.BindEnv("chunk.overlap", "CHUNK_OVERLAP")
	viper.BindEnv("chunk.semantic_threshold", "CHUNK_SEMANTIC_THRESHOLD")
	viper.BindEnv("fusion.alpha", "FUSION_ALPHA")
	viper.BindEnv("fusion.k", "FUSION_K")

	// Map environment variables to Viper keys for LLM calls and Server
	viper.BindEnv("llm.max_concurrent", "LLM_MAX_CONCURRENT")
	viper.BindEnv("llm.call_timeout", "LLM_CALL_TIMEOUT")
	viper.BindEnv("summarize.batch_size", "SUMMARIZE_BATCH_SIZE")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Set default values for Ollama
	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("ollama.embed_model", "nomic-embed-text")
	viper.SetDefault("ollama.llm_model", "llama3.1")
	viper.SetDefault("ollama.embed_dim", 768)

	// Set default values for Weaviate
	viper.SetDefault("weaviate.host", "localhost:8080")
	viper.SetDefault("weaviate.scheme", "http")
	viper.SetDefault("weaviate.collection", "chunks")

	// Set default values for corpus and caches
	viper.SetDefault("corpus.dir", "./data")
	viper.SetDefault("cache.dir", "./cache")

	// Set default values for chunking and fusion
	viper.SetDefault("chunk.size", 512)
	viper.SetDefault("chunk.overlap", 50)
	viper.SetDefault("chunk.semantic_threshold", 0.5)
	viper.SetDefault("fusion.alpha", 0.5)
	viper.SetDefault("fusion.k", 60)

	// Set default values for LLM calls and Server
	viper.SetDefault("llm.max_concurrent", 5)
	viper.SetDefault("llm.call_timeout", "30s")
	viper.SetDefault("summarize.batch_size", 10)
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")
}
