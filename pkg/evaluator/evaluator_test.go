package evaluator_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/clause"
	"github.com/vellumhq/vellum/pkg/evaluator"
	testutils "github.com/vellumhq/vellum/pkg/utils/test"
)

func TestEvaluator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Evaluator Suite")
}

var _ = Describe("Evaluator", func() {
	var (
		completer *testutils.MockCompleter
		logger    *zap.Logger
		ctx       context.Context
		clauses   []clause.Clause
	)

	BeforeEach(func() {
		completer = testutils.NewMockCompleter("")
		logger = zap.NewNop()
		ctx = context.Background()
		clauses = []clause.Clause{
			{Text: "The policy covers knee surgery after 90 days.", Score: 0.91, Type: clause.TypeCoverage},
			{Text: "Pre-existing diseases carry a 2 years waiting period.", Score: 0.72, Type: clause.TypeWaitingPeriod},
		}
	})

	It("returns the structured evaluation from the model", func() {
		completer.Response = `{"answer":"Yes, knee surgery is covered after 90 days.","decision":"covered","confidence":"High","justification":"Chunk 1 states it."}`
		eval := evaluator.NewEvaluator(completer, logger)

		result := eval.Evaluate(ctx, "Is knee surgery covered?", clauses)
		Expect(result.Question).To(Equal("Is knee surgery covered?"))
		Expect(result.Answer).To(Equal("Yes, knee surgery is covered after 90 days."))
		Expect(result.Decision).To(Equal("covered"))
		Expect(result.Confidence).To(Equal("High"))
	})

	It("attaches clause texts when the model cites none", func() {
		completer.Response = `{"answer":"Covered.","decision":"covered","confidence":"Medium"}`
		eval := evaluator.NewEvaluator(completer, logger)

		result := eval.Evaluate(ctx, "Is it covered?", clauses)
		Expect(result.SourceClauses).To(HaveLen(2))
		Expect(result.SourceClauses[0]).To(ContainSubstring("knee surgery"))
	})

	It("includes the question and numbered chunks in the prompt", func() {
		completer.Response = `{"answer":"ok"}`
		eval := evaluator.NewEvaluator(completer, logger)

		eval.Evaluate(ctx, "What is the waiting period?", clauses)
		Expect(completer.Prompts).To(HaveLen(1))
		Expect(completer.Prompts[0]).To(ContainSubstring("What is the waiting period?"))
		Expect(completer.Prompts[0]).To(ContainSubstring("**Chunk 1**"))
		Expect(completer.Prompts[0]).To(ContainSubstring("**Chunk 2**"))
		Expect(completer.Prompts[0]).To(ContainSubstring("0.91"))
	})

	It("degrades when the completion fails", func() {
		completer.FailOn = "document analysis assistant"
		eval := evaluator.NewEvaluator(completer, logger)

		result := eval.Evaluate(ctx, "Anything?", clauses)
		Expect(result.Answer).To(Equal("Unable to analyze the document for this question."))
		Expect(result.Decision).To(Equal("insufficient_info"))
		Expect(result.Confidence).To(Equal("Low"))
	})

	It("degrades when the response is not valid JSON", func() {
		completer.Response = "the model rambled instead of answering"
		eval := evaluator.NewEvaluator(completer, logger)

		result := eval.Evaluate(ctx, "Anything?", clauses)
		Expect(result.Decision).To(Equal("insufficient_info"))
	})

	It("degrades when the response carries no answer", func() {
		completer.Response = `{"decision":"covered"}`
		eval := evaluator.NewEvaluator(completer, logger)

		result := eval.Evaluate(ctx, "Anything?", clauses)
		Expect(result.Answer).To(Equal("Unable to analyze the document for this question."))
	})

	It("parses a fenced JSON response", func() {
		completer.Response = "```json\n{\"answer\":\"Fenced but fine.\"}\n```"
		eval := evaluator.NewEvaluator(completer, logger)

		result := eval.Evaluate(ctx, "Anything?", clauses)
		Expect(result.Answer).To(Equal("Fenced but fine."))
	})
})
