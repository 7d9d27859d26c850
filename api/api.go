package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vellumhq/vellum/api/query"
	"github.com/vellumhq/vellum/pkg/document"
)

// Server is the API server for answering questions about documents
type Server struct {
	config    Config
	fetcher   *document.Fetcher
	extractor *document.Extractor
	svc       *query.Service
	logger    *zap.Logger
	app       *fiber.App
}

// NewServer creates a new API server.
// The fetcher and extractor are injected to allow sharing with other
// components and swapping in tests.
func NewServer(config Config, fetcher *document.Fetcher, extractor *document.Extractor, svc *query.Service, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		fetcher:   fetcher,
		extractor: extractor,
		svc:       svc,
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/api/v1/query", s.handleQuery)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
