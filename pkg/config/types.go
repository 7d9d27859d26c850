// Package config holds the vellum configuration and its viper wiring.
package config

// Config represents the vellum configuration, read from config.toml with
// environment variable and CLI flag overrides. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Document  DocumentConfig  `toml:"document"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
}

// ServerConfig holds API server settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// DocumentConfig holds document download and extraction settings.
type DocumentConfig struct {
	// MaxPages caps how many pages are extracted from a document.
	// Zero means no cap.
	MaxPages int `toml:"max_pages,omitempty"`

	// FetchTimeoutSeconds bounds a single document download.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds,omitempty"`
}

// RetrievalConfig holds chunking and search settings.
type RetrievalConfig struct {
	ChunkSize int `toml:"chunk_size,omitempty"`
	Overlap   int `toml:"overlap,omitempty"`
	TopK      int `toml:"top_k,omitempty"`
	Workers   int `toml:"workers,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// LLMConfig holds completion provider settings.
type LLMConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}
