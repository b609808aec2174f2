package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// Retriever embeds a query and runs the thresholded top-k similarity search.
type Retriever struct {
	embedder  Embedder
	searcher  StatuteSearcher
	threshold float64
	count     int
	logger    *zap.Logger
}

// NewRetriever creates a retriever with the deployment's search tunables.
func NewRetriever(embedder Embedder, searcher StatuteSearcher, threshold float64, count int, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder:  embedder,
		searcher:  searcher,
		threshold: threshold,
		count:     count,
		logger:    logger,
	}
}

// Retrieve returns matches ordered by similarity descending, as ranked by the
// store; no re-ranking happens here. An empty result means no passage cleared
// the threshold and is a valid outcome for the caller to act on.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.SectionMatch, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}

	matches, err := r.searcher.MatchSections(ctx, vector, r.threshold, r.count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}

	r.logger.Debug("retrieved sections",
		zap.String("query", query),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}
