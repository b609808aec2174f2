package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// NewPool connects to the statute corpus database
func NewPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// StatuteRepository handles database operations against the labour-law corpus.
// Similarity search is delegated to the server-side match_sections_v2 function,
// which already excludes rows whose embedding has not been populated and
// returns matches ordered by similarity descending.
type StatuteRepository struct {
	pool *pgxpool.Pool
}

// NewStatuteRepository creates a new statute repository
func NewStatuteRepository(pool *pgxpool.Pool) *StatuteRepository {
	return &StatuteRepository{pool: pool}
}

// formatVector formats an embedding as a pgvector literal
func formatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// MatchSections runs a thresholded top-k similarity search.
// An empty result is a valid outcome, not an error.
func (r *StatuteRepository) MatchSections(
	ctx context.Context,
	embedding []float32,
	threshold float64,
	count int,
) ([]domain.SectionMatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT section_number::text, text_original, similarity
		FROM match_sections_v2($1::vector, $2, $3)
	`, formatVector(embedding), threshold, count)
	if err != nil {
		return nil, fmt.Errorf("failed to query section matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.SectionMatch
	for rows.Next() {
		var m domain.SectionMatch
		if err := rows.Scan(&m.SectionNumber, &m.Text, &m.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan section match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section matches: %w", err)
	}

	return matches, nil
}

// ListUnembedded returns up to limit sections that have no embedding yet,
// oldest first, for the ingestion job.
func (r *StatuteRepository) ListUnembedded(ctx context.Context, limit int) ([]domain.StatuteSection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, section_number::text, text_original
		FROM act_sections
		WHERE embedding IS NULL
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unembedded sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.StatuteSection
	for rows.Next() {
		var s domain.StatuteSection
		if err := rows.Scan(&s.ID, &s.SectionNumber, &s.Text); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sections: %w", err)
	}

	return sections, nil
}

// SetEmbedding persists the embedding for one section
func (r *StatuteRepository) SetEmbedding(ctx context.Context, id int64, embedding []float32) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE act_sections SET embedding = $1::vector WHERE id = $2
	`, formatVector(embedding), id)
	if err != nil {
		return fmt.Errorf("failed to update embedding for section %d: %w", id, err)
	}
	return nil
}
