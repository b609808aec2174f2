// Package ingest populates embeddings for statute sections that do not have
// one yet. It runs offline and is idempotent: rows already embedded are never
// selected again.
package ingest

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// SectionSource provides unembedded rows and persists computed embeddings.
type SectionSource interface {
	ListUnembedded(ctx context.Context, limit int) ([]domain.StatuteSection, error)
	SetEmbedding(ctx context.Context, id int64, embedding []float32) error
}

// Embedder turns section text into a vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Job embeds the corpus in small batches with a pause between them, so the
// database and the embedding backend are never saturated.
type Job struct {
	source    SectionSource
	embedder  Embedder
	batchSize int
	pause     time.Duration
	logger    *zap.Logger
}

// NewJob creates an ingestion job.
func NewJob(source SectionSource, embedder Embedder, batchSize int, pause time.Duration, logger *zap.Logger) *Job {
	return &Job{
		source:    source,
		embedder:  embedder,
		batchSize: batchSize,
		pause:     pause,
		logger:    logger,
	}
}

// Run processes batches until the corpus has no unembedded rows left or the
// context is cancelled. Per-row failures are logged and skipped; a skipped row
// is retried on the next run.
func (j *Job) Run(ctx context.Context) error {
	for {
		selected, embedded, err := j.processBatch(ctx)
		if err != nil {
			return err
		}
		if selected == 0 {
			j.logger.Info("all sections embedded")
			return nil
		}
		if embedded == 0 {
			// Every row in the batch failed or was empty; they would be
			// selected again next round, so stop instead of spinning.
			j.logger.Warn("batch made no progress, stopping",
				zap.Int("sections", selected))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(j.pause):
		}
	}
}

// processBatch embeds one batch and reports how many rows were selected and
// how many embeddings were persisted.
func (j *Job) processBatch(ctx context.Context) (int, int, error) {
	sections, err := j.source.ListUnembedded(ctx, j.batchSize)
	if err != nil {
		return 0, 0, err
	}
	if len(sections) == 0 {
		return 0, 0, nil
	}

	j.logger.Info("embedding batch", zap.Int("sections", len(sections)))

	embedded := 0
	for _, section := range sections {
		if strings.TrimSpace(section.Text) == "" {
			j.logger.Warn("skipping empty section",
				zap.String("section_number", section.SectionNumber))
			continue
		}

		vector, err := j.embedder.EmbedQuery(ctx, section.Text)
		if err != nil {
			j.logger.Warn("failed to embed section",
				zap.String("section_number", section.SectionNumber),
				zap.Error(err))
			continue
		}

		if err := j.source.SetEmbedding(ctx, section.ID, vector); err != nil {
			j.logger.Warn("failed to store embedding",
				zap.String("section_number", section.SectionNumber),
				zap.Error(err))
			continue
		}

		embedded++
		j.logger.Info("embedded section",
			zap.String("section_number", section.SectionNumber))
	}

	return len(sections), embedded, nil
}
