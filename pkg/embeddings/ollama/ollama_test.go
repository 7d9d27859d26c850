package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vellumhq/vellum/pkg/embeddings"
	"github.com/vellumhq/vellum/pkg/embeddings/ollama"
)

func TestOllamaEmbedder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Embedder Suite")
}

var _ = Describe("Embedder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("sends the whole batch in one request and preserves order", func() {
		var gotInput []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/embed"))

			var req struct {
				Model string   `json:"model"`
				Input []string `json:"input"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			gotInput = req.Input
			Expect(req.Model).To(Equal("test-model"))

			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{1, 0}, {0, 1}},
			})
		}))
		defer srv.Close()

		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: srv.URL,
			Model:   "test-model",
		})
		Expect(err).NotTo(HaveOccurred())

		vectors, err := embedder.EmbedBatch(ctx, []string{"first", "second"})
		Expect(err).NotTo(HaveOccurred())
		Expect(gotInput).To(Equal([]string{"first", "second"}))
		Expect(vectors).To(Equal([][]float32{{1, 0}, {0, 1}}))
	})

	It("fails when the response has the wrong number of embeddings", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{1, 0}},
			})
		}))
		defer srv.Close()

		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: srv.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.EmbedBatch(ctx, []string{"first", "second"})
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("fails on a non-200 response", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: srv.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})
})
