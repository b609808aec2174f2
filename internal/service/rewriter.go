package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/domain"
)

const rewritePromptTemplate = `Given the following conversation:
%s
And the latest question: %q

Rewrite the latest question as one complete, standalone question that can be
understood on its own, folding in the context from the conversation, so that it
retrieves the most relevant sections from a labour-law database.
Respond with the rewritten question only. No preamble and no quotation marks.

Rewritten question:`

// Rewriter converts a question plus recent conversation history into a
// standalone search query.
type Rewriter struct {
	llm    TextGenerator
	window int
	logger *zap.Logger
}

// NewRewriter creates a rewriter that reads at most window history turns.
func NewRewriter(llm TextGenerator, window int, logger *zap.Logger) *Rewriter {
	return &Rewriter{llm: llm, window: window, logger: logger}
}

// Rewrite returns a standalone search query for the question. With no history
// the question is returned as is, without a model call. Any model failure also
// falls back to the original question: rewriting degrades, it never aborts.
func (r *Rewriter) Rewrite(ctx context.Context, question string, history []domain.Turn) string {
	if len(history) == 0 {
		return question
	}

	prompt := fmt.Sprintf(rewritePromptTemplate, renderHistory(history, r.window), question)

	rewritten, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("query rewrite failed, using original question", zap.Error(err))
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question
	}

	r.logger.Debug("rewrote question", zap.String("standalone_query", rewritten))
	return rewritten
}

// renderHistory formats the last window turns as "User:"/"AI:" lines.
func renderHistory(history []domain.Turn, window int) string {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	var b strings.Builder
	for _, turn := range history {
		role := "AI"
		if turn.Role == domain.RoleUser {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, turn.Content)
	}
	return b.String()
}
