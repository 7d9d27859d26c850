package config

const (
	defaultListen = ":8080"

	defaultMaxPages            = 0
	defaultFetchTimeoutSeconds = 30

	defaultChunkSize = 1000
	defaultOverlap   = 200
	defaultTopK      = 5
	defaultWorkers   = 4

	defaultProvider = "ollama"

	defaultEmbeddingModel = "nomic-embed-text"
	defaultLLMModel       = "llama3.1"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Document: DocumentConfig{
			MaxPages:            defaultMaxPages,
			FetchTimeoutSeconds: defaultFetchTimeoutSeconds,
		},
		Retrieval: RetrievalConfig{
			ChunkSize: defaultChunkSize,
			Overlap:   defaultOverlap,
			TopK:      defaultTopK,
			Workers:   defaultWorkers,
		},
		// Target stays empty by default: each provider client falls back
		// to its own endpoint (Ollama's localhost URL, OpenAI's official
		// API) when no override is configured.
		Embedding: EmbeddingConfig{
			Provider: defaultProvider,
			Model:    defaultEmbeddingModel,
		},
		LLM: LLMConfig{
			Provider: defaultProvider,
			Model:    defaultLLMModel,
		},
	}
}
