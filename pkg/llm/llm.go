// Package llm defines the completion contract for the reasoning and query
// parsing collaborators, plus helpers shared by their provider clients.
package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrCompletion is returned when a completion request fails.
var ErrCompletion = errors.New("completion failed")

// Completer produces a text completion for a prompt. Implementations are
// safe for concurrent use.
type Completer interface {
	// Complete sends the prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the completer.
	Close() error
}

// StripJSONFence removes a surrounding markdown code fence (```json ... ```
// or ``` ... ```) from a model response, returning the inner payload.
// Models routinely wrap JSON answers in fences even when told not to.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
