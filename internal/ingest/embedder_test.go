package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// fakeSource serves scripted batches and records persisted embeddings.
type fakeSource struct {
	batches   [][]domain.StatuteSection
	persisted map[int64][]float32
	setErr    map[int64]error
}

func newFakeSource(batches ...[]domain.StatuteSection) *fakeSource {
	return &fakeSource{
		batches:   batches,
		persisted: make(map[int64][]float32),
		setErr:    make(map[int64]error),
	}
}

func (f *fakeSource) ListUnembedded(context.Context, int) ([]domain.StatuteSection, error) {
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func (f *fakeSource) SetEmbedding(_ context.Context, id int64, embedding []float32) error {
	if err := f.setErr[id]; err != nil {
		return err
	}
	f.persisted[id] = embedding
	return nil
}

// fakeEmbedder fails for texts listed in failFor.
type fakeEmbedder struct {
	failFor map[string]error
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if err := f.failFor[text]; err != nil {
		return nil, err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestRun_EmbedsAllBatches(t *testing.T) {
	source := newFakeSource(
		[]domain.StatuteSection{
			{ID: 1, SectionNumber: "9", Text: "wages must be paid"},
			{ID: 2, SectionNumber: "10", Text: "working hours"},
		},
		[]domain.StatuteSection{
			{ID: 3, SectionNumber: "11", Text: "overtime"},
		},
	)
	job := NewJob(source, &fakeEmbedder{}, 10, 0, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, source.persisted, 3)
}

func TestRun_SkipsEmptyAndFailedRows(t *testing.T) {
	source := newFakeSource(
		[]domain.StatuteSection{
			{ID: 1, SectionNumber: "9", Text: "   "},
			{ID: 2, SectionNumber: "10", Text: "working hours"},
			{ID: 3, SectionNumber: "11", Text: "broken"},
		},
	)
	job := NewJob(source, &fakeEmbedder{
		failFor: map[string]error{"broken": errors.New("backend down")},
	}, 10, 0, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))

	assert.Contains(t, source.persisted, int64(2))
	assert.NotContains(t, source.persisted, int64(1))
	assert.NotContains(t, source.persisted, int64(3))
}

func TestRun_StoreFailureIsSkipped(t *testing.T) {
	source := newFakeSource(
		[]domain.StatuteSection{
			{ID: 1, SectionNumber: "9", Text: "wages"},
			{ID: 2, SectionNumber: "10", Text: "hours"},
		},
	)
	source.setErr[1] = errors.New("write conflict")
	job := NewJob(source, &fakeEmbedder{}, 10, 0, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))
	assert.Contains(t, source.persisted, int64(2))
	assert.NotContains(t, source.persisted, int64(1))
}

func TestRun_StopsWhenBatchMakesNoProgress(t *testing.T) {
	// A batch of only empty rows would be re-selected forever; the job must
	// stop rather than spin.
	source := newFakeSource(
		[]domain.StatuteSection{{ID: 1, SectionNumber: "9", Text: ""}},
		[]domain.StatuteSection{{ID: 1, SectionNumber: "9", Text: ""}},
	)
	job := NewJob(source, &fakeEmbedder{}, 10, 0, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, source.batches, 1, "second batch must never be requested")
}

func TestRun_EmptyCorpus(t *testing.T) {
	job := NewJob(newFakeSource(), &fakeEmbedder{}, 10, 0, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))
}
