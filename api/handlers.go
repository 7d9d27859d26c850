package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/document"
)

// QueryRequest is the body of a document query: one document URL and the
// questions to answer against it.
type QueryRequest struct {
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}

// QueryResponse carries one answer per question, in request order.
type QueryResponse struct {
	Answers []string `json:"answers"`
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleQuery downloads the document, indexes it, and answers every question.
func (s *Server) handleQuery(c *fiber.Ctx) error {
	ctx := c.Context()
	requestID := uuid.NewString()
	started := time.Now()

	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.Documents == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "documents URL required"})
	}
	if len(req.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "at least one question required"})
	}

	logger := s.logger.With(zap.String("request_id", requestID))
	logger.Info("query received",
		zap.String("document", req.Documents),
		zap.Int("questions", len(req.Questions)),
	)

	format, err := document.DetectFormat(req.Documents)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unsupported document format"})
	}

	content, err := s.fetcher.Fetch(ctx, req.Documents)
	if err != nil {
		logger.Error("document download failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "failed to download document"})
	}

	pages, err := s.extractor.Extract(content, format)
	if err != nil {
		if errors.Is(err, document.ErrNoText) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "document contains no extractable text"})
		}
		logger.Error("text extraction failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "failed to extract document text"})
	}

	matcher, err := s.svc.Ingest(ctx, pages)
	if err != nil {
		logger.Error("document ingestion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to index document"})
	}

	answers := s.svc.AnswerBatch(ctx, matcher, req.Questions)

	logger.Info("query answered",
		zap.Int("answers", len(answers)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return c.JSON(QueryResponse{Answers: answers})
}
