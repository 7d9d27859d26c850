// Package clause turns a structured query into a vector index search and
// annotates each hit with a clause-type classification and extracted key
// phrases (money amounts, durations, percentages).
package clause

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/index"
)

// FallbackQuery is the search string used when a parsed query carries no
// keywords and no entities.
const FallbackQuery = "general policy information"

// maxKeywords bounds how many parsed keywords feed the search string. A
// verbose parse should not grow the search string without bound; entity
// terms are semantically focused and are never truncated.
const maxKeywords = 10

// ParsedQuery is the structured parse of a user question, supplied by the
// query structurer. Absent fields are zero-valued.
type ParsedQuery struct {
	Intent         string   `json:"intent"`
	Keywords       []string `json:"keywords"`
	Entities       []string `json:"entities"`
	Conditions     []string `json:"conditions"`
	TimeReferences []string `json:"time_references"`
}

// Clause is a retrieved chunk annotated with its relevance score,
// provenance, classification tag and extracted key phrases.
type Clause struct {
	Text       string         `json:"text"`
	Score      float32        `json:"relevance_score"`
	Metadata   index.Metadata `json:"metadata"`
	Type       string         `json:"clause_type"`
	KeyPhrases []string       `json:"key_phrases"`
}

// Matcher finds document clauses relevant to a parsed query.
type Matcher struct {
	index  *index.Index
	logger *zap.Logger
}

// NewMatcher creates a matcher over the given per-request index.
func NewMatcher(ix *index.Index, logger *zap.Logger) *Matcher {
	return &Matcher{
		index:  ix,
		logger: logger,
	}
}

// FindRelevantClauses builds a search string from the parsed query, queries
// the index and annotates each hit. Retrieval failures degrade inside the
// index to an empty hit list, so a bad question simply yields no clauses.
func (m *Matcher) FindRelevantClauses(ctx context.Context, parsed ParsedQuery, k int) []Clause {
	query := BuildSearchQuery(parsed)

	hits := m.index.Search(ctx, query, k)

	clauses := make([]Clause, len(hits))
	for i, hit := range hits {
		clauses[i] = Clause{
			Text:       hit.Text,
			Score:      hit.Score,
			Metadata:   hit.Metadata,
			Type:       Classify(hit.Text),
			KeyPhrases: ExtractKeyPhrases(hit.Text),
		}
	}

	m.logger.Info("found relevant clauses",
		zap.Int("count", len(clauses)),
	)

	return clauses
}

// BuildSearchQuery concatenates up to maxKeywords keywords and all entities
// into a space-joined search string, falling back to FallbackQuery when the
// parse carries no terms.
func BuildSearchQuery(parsed ParsedQuery) string {
	terms := make([]string, 0, maxKeywords+len(parsed.Entities))

	keywords := parsed.Keywords
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	terms = append(terms, keywords...)
	terms = append(terms, parsed.Entities...)

	if len(terms) == 0 {
		return FallbackQuery
	}

	return strings.Join(terms, " ")
}

// Classify tags a chunk with its clause type using the ordered rule table.
// Matching is case-insensitive substring containment; the first matching
// rule wins.
func Classify(text string) string {
	lower := strings.ToLower(text)

	for _, rule := range classificationRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.clauseType
			}
		}
	}

	return TypeGeneral
}

// ExtractKeyPhrases runs the phrase pattern scans over the raw chunk text
// and concatenates all matches in pattern order. Repeated phrases in the
// text appear repeated in the output.
func ExtractKeyPhrases(text string) []string {
	var phrases []string
	for _, pattern := range phrasePatterns {
		phrases = append(phrases, pattern.FindAllString(text, -1)...)
	}
	return phrases
}
