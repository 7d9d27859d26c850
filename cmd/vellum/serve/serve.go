// Package servecmder provides the serve command for running the query API server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vellumhq/vellum/api"
	"github.com/vellumhq/vellum/api/query"
	"github.com/vellumhq/vellum/pkg/config"
	"github.com/vellumhq/vellum/pkg/document"
	embeddingutils "github.com/vellumhq/vellum/pkg/embeddings/utils"
	"github.com/vellumhq/vellum/pkg/evaluator"
	llmutils "github.com/vellumhq/vellum/pkg/llm/utils"
	"github.com/vellumhq/vellum/pkg/logger"
	"github.com/vellumhq/vellum/pkg/queryparser"
)

type ServeCommander struct {
	listen         string
	chunkSize      int
	overlap        int
	topK           int
	workers        int
	maxPages       int
	embeddingProv  string
	embeddingTgt   string
	embeddingModel string
	llmProv        string
	llmTgt         string
	llmModel       string
	configDir      string
	debug          bool
	logger         *zap.Logger
	viper          *viper.Viper
}

const serveLongDesc string = `Run the Vellum query API server.

The server accepts a document URL and a batch of questions, retrieves the
relevant clauses from the document, and answers each question.`

const serveShortDesc string = "Run the Vellum query API server"

// serveFlags is the flag registry for the serve command.
var serveFlags = config.FlagSet{
	config.FlagListen: {
		Name: "listen", Shorthand: "l", ViperKey: "server.listen",
		Description: "Address for the API server to listen on",
	},
	config.FlagChunkSize: {
		Name: "chunk-size", ViperKey: "retrieval.chunk_size",
		Description: "Maximum chunk length in characters",
	},
	config.FlagOverlap: {
		Name: "overlap", ViperKey: "retrieval.overlap",
		Description: "Characters shared between adjacent chunks",
	},
	config.FlagTopK: {
		Name: "top-k", Shorthand: "k", ViperKey: "retrieval.top_k",
		Description: "Number of clauses retrieved per question",
	},
	config.FlagWorkers: {
		Name: "workers", Shorthand: "w", ViperKey: "retrieval.workers",
		Description: "Maximum questions answered concurrently",
	},
	config.FlagMaxPages: {
		Name: "max-pages", ViperKey: "document.max_pages",
		Description: "Maximum pages extracted per document (0 = all)",
	},
	config.FlagEmbeddingProv: {
		Name: "embedding-provider", ViperKey: "embedding.provider",
		Description: "Embedding provider (ollama, openai)",
	},
	config.FlagEmbeddingTgt: {
		Name: "embedding-target", ViperKey: "embedding.target",
		Description: "Embedding provider URL (empty = provider default)",
	},
	config.FlagEmbeddingModel: {
		Name: "embedding-model", ViperKey: "embedding.model",
		Description: "Embedding model name",
	},
	config.FlagLLMProv: {
		Name: "llm-provider", ViperKey: "llm.provider",
		Description: "Completion provider (ollama, openai)",
	},
	config.FlagLLMTgt: {
		Name: "llm-target", ViperKey: "llm.target",
		Description: "Completion provider URL (empty = provider default)",
	},
	config.FlagLLMModel: {
		Name: "llm-model", Shorthand: "m", ViperKey: "llm.model",
		Description: "Completion model name",
	},
}

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagChunkSize,
	config.FlagOverlap,
	config.FlagTopK,
	config.FlagWorkers,
	config.FlagMaxPages,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagLLMProv,
	config.FlagLLMTgt,
	config.FlagLLMModel,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env file is fine, real env vars still apply.
			_ = godotenv.Load()

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)
			cmder.viper = v

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagListen, &cmder.listen)
	config.AddIntFlag(cmd, serveFlags, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, serveFlags, config.FlagOverlap, &cmder.overlap)
	config.AddIntFlag(cmd, serveFlags, config.FlagTopK, &cmder.topK)
	config.AddIntFlag(cmd, serveFlags, config.FlagWorkers, &cmder.workers)
	config.AddIntFlag(cmd, serveFlags, config.FlagMaxPages, &cmder.maxPages)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingTgt, &cmder.embeddingTgt)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddStringFlag(cmd, serveFlags, config.FlagLLMProv, &cmder.llmProv)
	config.AddStringFlag(cmd, serveFlags, config.FlagLLMTgt, &cmder.llmTgt)
	config.AddStringFlag(cmd, serveFlags, config.FlagLLMModel, &cmder.llmModel)
	cmd.Flags().StringVar(&cmder.configDir, "config", "", "Directory containing config.toml")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg := config.FromViper(c.viper)

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	completer, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
		ProviderType: cfg.LLM.Provider,
		TargetURL:    cfg.LLM.Target,
		Model:        cfg.LLM.Model,
		APIKey:       cfg.LLM.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating completer: %w", err)
	}
	defer completer.Close()

	parser := queryparser.NewParser(completer, c.logger)
	eval := evaluator.NewEvaluator(completer, c.logger)

	svc := query.NewService(parser, eval, embedder, query.Config{
		ChunkSize: cfg.Retrieval.ChunkSize,
		Overlap:   cfg.Retrieval.Overlap,
		TopK:      cfg.Retrieval.TopK,
		Workers:   cfg.Retrieval.Workers,
	}, c.logger)

	fetcher := document.NewFetcher(time.Duration(cfg.Document.FetchTimeoutSeconds)*time.Second, c.logger)
	extractor := document.NewExtractor(cfg.Document.MaxPages, c.logger)

	server := api.NewServer(api.Config{
		ListenAddr: cfg.Server.Listen,
	}, fetcher, extractor, svc, c.logger)

	c.logger.Info("starting query API server",
		zap.String("listen", cfg.Server.Listen),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}
