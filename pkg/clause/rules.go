package clause

import "regexp"

// Clause type tags produced by Classify.
const (
	TypeCoverage      = "coverage"
	TypeWaitingPeriod = "waiting_period"
	TypePremium       = "premium"
	TypeExclusion     = "exclusion"
	TypeAmount        = "amount"
	TypeGeneral       = "general"
)

// classificationRule maps a clause type to the terms that select it.
type classificationRule struct {
	clauseType string
	terms      []string
}

// classificationRules is the ordered rule table for clause classification.
// Rules are evaluated top to bottom against the lower-cased chunk text and
// the first match wins; a chunk is never reclassified once matched.
var classificationRules = []classificationRule{
	{TypeCoverage, []string{"cover", "coverage", "benefit"}},
	{TypeWaitingPeriod, []string{"waiting", "period", "wait"}},
	{TypePremium, []string{"premium", "payment", "due"}},
	{TypeExclusion, []string{"exclude", "exclusion", "not covered"}},
	{TypeAmount, []string{"amount", "sum", "limit"}},
}

// phrasePatterns are the key-phrase extraction patterns, scanned over the
// raw (not lower-cased) chunk text in this order: currency amounts in common
// Indian notations, numeric time periods, percentages. Matches are
// concatenated without deduplication.
var phrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:Rs\.?|INR|₹)\s*[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`\d+\s*(?:days?|months?|years?)`),
	regexp.MustCompile(`\d+(?:\.\d+)?%`),
}
