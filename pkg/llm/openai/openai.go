// Package openai implements pkg/llm's Completer client on top of the OpenAI
// chat completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/vellumhq/vellum/pkg/llm"
)

// DefaultModel is the default chat model.
const DefaultModel = "gpt-4o-mini"

// Completer wraps the OpenAI chat completions API.
type Completer struct {
	client openai.Client
	model  string
}

// CompleterConfig holds configuration for the OpenAI completer.
type CompleterConfig struct {
	// APIKey authenticates against the OpenAI API. When empty the client
	// falls back to the OPENAI_API_KEY environment variable.
	APIKey string

	// BaseURL overrides the API endpoint, for OpenAI-compatible gateways.
	// Empty means the official endpoint.
	BaseURL string

	// Model is the chat model to use. Defaults to DefaultModel if empty.
	Model string
}

// NewCompleter creates a new completer using the OpenAI chat completions API.
func NewCompleter(cfg CompleterConfig) (*Completer, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Completer{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Complete sends the prompt as a single user message and returns the model's
// response text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrCompletion, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", llm.ErrCompletion)
	}

	return completion.Choices[0].Message.Content, nil
}

// Close releases resources held by the completer.
func (c *Completer) Close() error {
	return nil
}

// Ensure Completer implements llm.Completer
var _ llm.Completer = (*Completer)(nil)
