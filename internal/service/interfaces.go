package service

import (
	"context"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// Normalizer cleans query text before it is embedded.
type Normalizer interface {
	Normalize(text string) string
}

// Embedder turns text into a fixed-length vector.
// Deterministic for a fixed model and input.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TextGenerator produces text from a rendered prompt, either as a single
// blocking call or as a stream of fragments in generation order.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string, emit func(fragment string) error) error
}

// StatuteSearcher runs a thresholded top-k similarity search against the
// statute corpus. Matches arrive ordered by similarity descending.
type StatuteSearcher interface {
	MatchSections(ctx context.Context, embedding []float32, threshold float64, count int) ([]domain.SectionMatch, error)
}

// TranscriptStore persists session transcripts for audit.
type TranscriptStore interface {
	CreateSession(session *domain.Session) error
	TouchSession(id string) error
	SaveMessage(message *domain.Message) error
}
