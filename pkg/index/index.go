// Package index provides a per-request, in-memory vector index over document
// chunks. The index is exact by design: the corpus is one document's chunks,
// so ranking is a full cosine scan rather than an approximate structure.
//
// One Index is created per document-processing request and discarded when the
// request's questions have been answered. Entries are append-only; nothing is
// updated or removed for the lifetime of the index.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/embeddings"
)

// Metadata carries a chunk's provenance (page number, source identifier).
type Metadata map[string]any

// Hit is a single similarity query result.
type Hit struct {
	// Text is the stored chunk text.
	Text string

	// Score is the cosine similarity to the query, in [-1, 1].
	Score float32

	// Metadata is the chunk's provenance metadata.
	Metadata Metadata
}

// Index stores (chunk text, embedding, metadata) triples indexed by insertion
// position and answers top-k cosine similarity queries.
//
// Add calls must be serialized by the caller (single-writer discipline);
// Search calls against a populated, no-longer-mutated index may run
// concurrently.
type Index struct {
	embedder embeddings.Embedder
	logger   *zap.Logger

	texts      []string
	embeddings [][]float32
	metadata   []Metadata
}

// New creates an empty index backed by the given embedder. The embedder is a
// shared, process-wide resource; the index itself is request-scoped.
func New(embedder embeddings.Embedder, logger *zap.Logger) *Index {
	return &Index{
		embedder: embedder,
		logger:   logger,
	}
}

// Len reports the number of stored chunks.
func (ix *Index) Len() int {
	return len(ix.texts)
}

// Add embeds texts in a single batched call and appends them to the index.
// A nil or empty texts slice is a no-op. If metadata is shorter than texts
// the missing entries default to empty maps, so the stored lists always
// share one length.
//
// An embedding failure propagates to the caller: a partially-populated index
// would silently skew every subsequent search, so ingestion aborts instead.
func (ix *Index) Add(ctx context.Context, texts []string, metadata []Metadata) error {
	if len(texts) == 0 {
		return nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(texts), err)
	}

	// The stored lists must share one length; an embedder returning the
	// wrong number of vectors would desynchronize scores from texts.
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding %d chunks: got %d vectors", len(texts), len(vectors))
	}

	ix.texts = append(ix.texts, texts...)
	ix.embeddings = append(ix.embeddings, vectors...)
	for i := range texts {
		if i < len(metadata) && metadata[i] != nil {
			ix.metadata = append(ix.metadata, metadata[i])
		} else {
			ix.metadata = append(ix.metadata, Metadata{})
		}
	}

	ix.logger.Info("added chunks to index",
		zap.Int("count", len(texts)),
		zap.Int("total", len(ix.texts)),
	)

	return nil
}

// Search embeds the query once and ranks every stored chunk by cosine
// similarity, returning the top k hits in descending score order. k may
// exceed the corpus size, in which case all entries are returned ranked.
// Searching an empty index returns no hits.
//
// A query-embedding failure degrades to an empty result with a log entry
// rather than an error: one unanswerable question must never abort the
// rest of a batch.
//
// Equal scores keep their insertion order (stable sort), so repeated
// searches over the same index are deterministic.
func (ix *Index) Search(ctx context.Context, query string, k int) []Hit {
	if len(ix.texts) == 0 {
		ix.logger.Warn("index is empty, returning no results")
		return nil
	}

	queryVector, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		ix.logger.Error("embedding query failed, returning no results",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	hits := make([]Hit, len(ix.texts))
	for i, vector := range ix.embeddings {
		hits[i] = Hit{
			Text:     ix.texts[i],
			Score:    cosine(queryVector, vector),
			Metadata: ix.metadata[i],
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if k < 0 {
		k = 0
	}
	if k < len(hits) {
		hits = hits[:k]
	}

	ix.logger.Debug("search complete",
		zap.Int("corpus", len(ix.texts)),
		zap.Int("hits", len(hits)),
	)

	return hits
}

// cosine computes the cosine similarity between two vectors. A zero-norm
// vector has no defined angle; it scores 0 rather than dividing by zero.
func cosine(a, b []float32) float32 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
