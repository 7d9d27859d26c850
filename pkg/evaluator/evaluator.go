// Package evaluator turns a question and its ranked clauses into a grounded,
// structured answer via the reasoning model. Failures never propagate:
// a question that cannot be evaluated yields an error-annotated result so
// the rest of the batch keeps going.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/clause"
	"github.com/vellumhq/vellum/pkg/llm"
)

// Evaluation is the structured result of analyzing clauses for one question.
type Evaluation struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	Decision      string   `json:"decision,omitempty"`
	Confidence    string   `json:"confidence,omitempty"`
	Justification string   `json:"justification,omitempty"`
	SourceClauses []string `json:"source_clauses,omitempty"`
}

// Evaluator analyzes retrieved clauses against user questions.
type Evaluator struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewEvaluator creates an evaluator backed by the given completer.
func NewEvaluator(completer llm.Completer, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		completer: completer,
		logger:    logger,
	}
}

// Evaluate asks the reasoning model to answer the question using only the
// supplied clauses and parses the structured response. Any failure along the
// way degrades to an error-annotated Evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, question string, clauses []clause.Clause) Evaluation {
	prompt := buildAnalysisPrompt(question, clauses)

	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		e.logger.Error("clause evaluation failed",
			zap.String("question", question),
			zap.Error(err),
		)
		return errorEvaluation(question, err)
	}

	var result Evaluation
	if err := json.Unmarshal([]byte(llm.StripJSONFence(response)), &result); err != nil {
		e.logger.Error("evaluation response is not valid JSON",
			zap.String("question", question),
			zap.Error(err),
		)
		return errorEvaluation(question, err)
	}

	if result.Answer == "" {
		e.logger.Error("evaluation response carries no answer",
			zap.String("question", question),
		)
		return errorEvaluation(question, fmt.Errorf("response missing answer field"))
	}

	result.Question = question

	// The model cites chunk numbers, not text; attach the clause texts so
	// callers can surface the grounding passages.
	if len(result.SourceClauses) == 0 {
		for _, c := range clauses {
			result.SourceClauses = append(result.SourceClauses, c.Text)
		}
	}

	e.logger.Info("evaluated clauses",
		zap.String("confidence", result.Confidence),
	)

	return result
}

// buildAnalysisPrompt formats the clauses and wraps them in the grounded
// document-analysis instructions.
func buildAnalysisPrompt(question string, clauses []clause.Clause) string {
	var sb strings.Builder
	for i, c := range clauses {
		fmt.Fprintf(&sb, "**Chunk %d** (Relevance: %.2f)\n%s\n---\n", i+1, c.Score, c.Text)
	}

	return fmt.Sprintf(`You are an intelligent document analysis assistant. Your role is to analyze document chunks and answer questions based ONLY on the provided content.

**STRICT INSTRUCTIONS:**
1. Read and understand the document chunks carefully
2. Answer the question using ONLY information from the provided chunks
3. Never hallucinate or invent details not in the document
4. If information is insufficient, clearly state that
5. Provide precise citations from the chunks

**USER QUESTION:** %q

**DOCUMENT CHUNKS:**
%s

**RESPONSE FORMAT (JSON only):**
{
    "question": %q,
    "answer": "Direct answer based only on document content",
    "decision": "covered|not_covered|conditional|insufficient_info",
    "confidence": "High|Medium|Low",
    "justification": "Why this answer follows from the chunks"
}`, question, sb.String(), question)
}

// errorEvaluation is the degraded result for a question that could not be
// evaluated.
func errorEvaluation(question string, err error) Evaluation {
	return Evaluation{
		Question:      question,
		Answer:        "Unable to analyze the document for this question.",
		Decision:      "insufficient_info",
		Confidence:    "Low",
		Justification: fmt.Sprintf("analysis failed: %v", err),
	}
}
