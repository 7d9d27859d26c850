// Package embeddings defines the text embedding contract shared by the
// vector index and the embedding provider clients.
package embeddings

import "context"

// Embedder provides text embedding capabilities. Implementations are
// stateless after construction and safe for concurrent use; one Embedder is
// shared across all per-request indexes in the process.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts into embeddings, one vector per input,
	// order preserving. All vectors from one Embedder share a fixed
	// dimensionality.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
