// Package queryparser converts a natural-language question into the
// structured query consumed by the clause matcher. Parsing is LLM-backed
// with a deterministic local fallback, so a parse never fails outright.
package queryparser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/clause"
	"github.com/vellumhq/vellum/pkg/llm"
)

// FallbackIntent tags queries parsed by the local fallback path.
const FallbackIntent = "general_inquiry"

// wordPattern feeds the fallback keyword scan.
var wordPattern = regexp.MustCompile(`\b\w+\b`)

const parsePromptFormat = `Analyze the following query and extract structured information:
Query: %q

Extract and return JSON with:
- "intent": main purpose (coverage_check, waiting_period, amount_calculation, etc.)
- "keywords": important terms and phrases
- "entities": specific items mentioned (surgeries, diseases, amounts, etc.)
- "conditions": any conditional requirements mentioned
- "time_references": time periods, dates, durations mentioned

Return only valid JSON.`

// Parser extracts structured information from user questions.
type Parser struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewParser creates a parser backed by the given completer.
func NewParser(completer llm.Completer, logger *zap.Logger) *Parser {
	return &Parser{
		completer: completer,
		logger:    logger,
	}
}

// Parse asks the model for a structured parse of the question. When the
// completion or its JSON payload is unusable the deterministic fallback
// parse is returned instead; the caller always receives a usable query.
func (p *Parser) Parse(ctx context.Context, question string) clause.ParsedQuery {
	response, err := p.completer.Complete(ctx, fmt.Sprintf(parsePromptFormat, question))
	if err != nil {
		p.logger.Warn("query parsing failed, using fallback",
			zap.Error(err),
		)
		return Fallback(question)
	}

	var parsed clause.ParsedQuery
	if err := json.Unmarshal([]byte(llm.StripJSONFence(response)), &parsed); err != nil {
		p.logger.Warn("query parse response is not valid JSON, using fallback",
			zap.Error(err),
		)
		return Fallback(question)
	}

	p.logger.Debug("parsed query",
		zap.String("intent", parsed.Intent),
		zap.Int("keywords", len(parsed.Keywords)),
		zap.Int("entities", len(parsed.Entities)),
	)

	return parsed
}

// Fallback is the deterministic local parse: every word of the lower-cased
// question becomes a keyword and all other fields stay empty.
func Fallback(question string) clause.ParsedQuery {
	return clause.ParsedQuery{
		Intent:   FallbackIntent,
		Keywords: wordPattern.FindAllString(strings.ToLower(question), -1),
	}
}
