package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/domain"
)

const answerPromptTemplate = `You are an expert adviser on Thai labour law.
Your job is to counsel employees accurately, politely and in plain language.
Answer in the language the question was asked in.

Reference legal context:
%s
Question: %s

Answer rules:
1. Answer only from the reference legal context above.
2. If the context is not sufficient, say so plainly instead of inventing an answer.
3. Always cite the section numbers you rely on (for example "under Section 32...").
4. Summarise the key points so a layperson can follow them.

Answer:`

// Answerer renders the grounding prompt and invokes the language model.
type Answerer struct {
	llm    TextGenerator
	logger *zap.Logger
}

// NewAnswerer creates an answer generator.
func NewAnswerer(llm TextGenerator, logger *zap.Logger) *Answerer {
	return &Answerer{llm: llm, logger: logger}
}

// Answer runs a single blocking generation and returns the complete text.
func (a *Answerer) Answer(ctx context.Context, grounding, question string) (string, error) {
	prompt := fmt.Sprintf(answerPromptTemplate, grounding, question)

	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return answer, nil
}

// AnswerStream generates incrementally, forwarding each fragment to emit in
// arrival order with no buffering.
func (a *Answerer) AnswerStream(ctx context.Context, grounding, question string, emit func(fragment string) error) error {
	prompt := fmt.Sprintf(answerPromptTemplate, grounding, question)

	if err := a.llm.GenerateStream(ctx, prompt, emit); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return nil
}
