package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/chunker"
	"github.com/vellumhq/vellum/pkg/clause"
	"github.com/vellumhq/vellum/pkg/document"
	"github.com/vellumhq/vellum/pkg/embeddings"
	"github.com/vellumhq/vellum/pkg/evaluator"
	"github.com/vellumhq/vellum/pkg/index"
	"github.com/vellumhq/vellum/pkg/queryparser"
)

// NoMatchAnswer is returned for a question when the document yields no
// relevant clauses.
const NoMatchAnswer = "No relevant information found in the document for this query."

var ErrNoChunks = errors.New("document produced no chunks")

// Config carries the retrieval knobs for a query service.
type Config struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// Overlap is the number of characters shared between adjacent chunks.
	Overlap int

	// TopK is how many clauses are retrieved per question.
	TopK int

	// Workers bounds how many questions are answered concurrently.
	Workers int
}

// Service runs the document question answering pipeline: chunk and index a
// document once, then answer a batch of questions against the index.
type Service struct {
	parser    *queryparser.Parser
	evaluator *evaluator.Evaluator
	embedder  embeddings.Embedder
	cfg       Config
	logger    *zap.Logger
}

func NewService(parser *queryparser.Parser, eval *evaluator.Evaluator, embedder embeddings.Embedder, cfg Config, logger *zap.Logger) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Service{
		parser:    parser,
		evaluator: eval,
		embedder:  embedder,
		cfg:       cfg,
		logger:    logger,
	}
}

// Ingest chunks the document's pages and embeds every chunk into a fresh
// index, returning a matcher over it. Each chunk carries its source page
// number as metadata.
func (s *Service) Ingest(ctx context.Context, pages []document.Page) (*clause.Matcher, error) {
	var texts []string
	var metadata []index.Metadata

	for _, page := range pages {
		chunks, err := chunker.Chunk(page.Text, s.cfg.ChunkSize, s.cfg.Overlap)
		if err != nil {
			return nil, fmt.Errorf("chunking page %d: %w", page.Number, err)
		}

		for _, chunk := range chunks {
			texts = append(texts, chunk)
			metadata = append(metadata, index.Metadata{
				"page":   page.Number,
				"source": "document",
			})
		}
	}

	if len(texts) == 0 {
		return nil, ErrNoChunks
	}

	ix := index.New(s.embedder, s.logger)
	if err := ix.Add(ctx, texts, metadata); err != nil {
		return nil, fmt.Errorf("indexing document: %w", err)
	}

	s.logger.Info("document ingested",
		zap.Int("pages", len(pages)),
		zap.Int("chunks", ix.Len()),
	)

	return clause.NewMatcher(ix, s.logger), nil
}

// AnswerBatch answers every question against the matcher's index, running up
// to cfg.Workers questions concurrently. Answers come back in the same order
// as the questions, and a failure on one question never affects the others.
func (s *Service) AnswerBatch(ctx context.Context, matcher *clause.Matcher, questions []string) []string {
	answers := make([]string, len(questions))

	jobs := make(chan int, len(questions))
	for i := range questions {
		jobs <- i
	}
	close(jobs)

	workers := s.cfg.Workers
	if workers > len(questions) {
		workers = len(questions)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				answers[i] = s.answer(ctx, matcher, questions[i])
			}
		}()
	}
	wg.Wait()

	return answers
}

func (s *Service) answer(ctx context.Context, matcher *clause.Matcher, question string) string {
	parsed := s.parser.Parse(ctx, question)

	clauses := matcher.FindRelevantClauses(ctx, parsed, s.cfg.TopK)
	if len(clauses) == 0 {
		s.logger.Debug("no relevant clauses", zap.String("question", question))
		return NoMatchAnswer
	}

	evaluation := s.evaluator.Evaluate(ctx, question, clauses)

	return evaluation.Answer
}
