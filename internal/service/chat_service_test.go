package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/domain"
)

func newTestService(rewriteGen, answerGen *fakeGenerator, searcher *fakeSearcher, transcripts TranscriptStore) *ChatService {
	logger := zap.NewNop()
	return NewChatService(
		passthroughNormalizer{},
		NewRewriter(rewriteGen, 4, logger),
		NewRetriever(&fakeEmbedder{vector: []float32{0.1, 0.2}}, searcher, 0.4, 5, logger),
		NewAnswerer(answerGen, logger),
		transcripts,
		logger,
	)
}

func TestChat_RoundTrip(t *testing.T) {
	answerGen := &fakeGenerator{response: "Per Section 10, ..."}
	searcher := &fakeSearcher{matches: []domain.SectionMatch{
		{SectionNumber: "10", Text: "annual leave entitlement", Similarity: 0.8},
	}}
	svc := newTestService(&fakeGenerator{}, answerGen, searcher, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Question: "how many days of leave?"})
	require.NoError(t, err)

	assert.Equal(t, "Per Section 10, ...", resp.Answer)
	assert.Equal(t, []string{"Section 10"}, resp.Sources)
}

func TestChat_EmptyRetrievalShortCircuits(t *testing.T) {
	answerGen := &fakeGenerator{response: "should never run"}
	svc := newTestService(&fakeGenerator{}, answerGen, &fakeSearcher{}, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Question: "unrelated topic"})
	require.NoError(t, err)

	assert.Equal(t, NoResultsAnswer, resp.Answer)
	assert.Equal(t, []string{}, resp.Sources)
	assert.Zero(t, answerGen.callCount(), "generator must not be invoked")
}

func TestChat_RetrievalFailureSurfaces(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection reset")}
	svc := newTestService(&fakeGenerator{}, &fakeGenerator{}, searcher, nil)

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Question: "q"})
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
}

func TestChat_GenerationFailureSurfaces(t *testing.T) {
	answerGen := &fakeGenerator{err: errors.New("model overloaded")}
	searcher := &fakeSearcher{matches: []domain.SectionMatch{{SectionNumber: "5", Text: "t"}}}
	svc := newTestService(&fakeGenerator{}, answerGen, searcher, nil)

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Question: "q"})
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestChat_RewriteFailureNeverSurfaces(t *testing.T) {
	rewriteGen := &fakeGenerator{err: errors.New("timeout")}
	answerGen := &fakeGenerator{response: "answer"}
	searcher := &fakeSearcher{matches: []domain.SectionMatch{{SectionNumber: "41", Text: "maternity leave"}}}
	svc := newTestService(rewriteGen, answerGen, searcher, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{
		Question: "แล้ววันหยุดล่ะ",
		History:  []domain.Turn{{Role: domain.RoleUser, Content: "ลาคลอดได้กี่วัน"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Answer)
}

func TestChat_PersistsTranscript(t *testing.T) {
	transcripts := &memTranscripts{}
	answerGen := &fakeGenerator{response: "answer"}
	searcher := &fakeSearcher{matches: []domain.SectionMatch{{SectionNumber: "5", Text: "t"}}}
	svc := newTestService(&fakeGenerator{}, answerGen, searcher, transcripts)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "session-1", resp.SessionID)

	messages := transcripts.savedMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "q", messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
	assert.Equal(t, "answer", messages[1].Content)
	assert.Equal(t, []string{"Section 5"}, messages[1].Sources)
}

func collect(stream <-chan domain.StreamChunk) []domain.StreamChunk {
	var chunks []domain.StreamChunk
	for chunk := range stream {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestChatStream_SourcesFirstThenContentInOrder(t *testing.T) {
	answerGen := &fakeGenerator{fragments: []string{"A", "B", "C"}}
	searcher := &fakeSearcher{matches: []domain.SectionMatch{{SectionNumber: "5", Text: "t", Similarity: 0.8}}}
	svc := newTestService(&fakeGenerator{}, answerGen, searcher, nil)

	chunks := collect(svc.ChatStream(context.Background(), &domain.ChatRequest{Question: "q"}))
	require.Len(t, chunks, 5)
	assert.Equal(t, domain.StreamChunk{Type: domain.ChunkTypeSources, Sources: []string{"Section 5"}}, chunks[0])
	assert.Equal(t, domain.StreamChunk{Type: domain.ChunkTypeContent, Content: "A"}, chunks[1])
	assert.Equal(t, domain.StreamChunk{Type: domain.ChunkTypeContent, Content: "B"}, chunks[2])
	assert.Equal(t, domain.StreamChunk{Type: domain.ChunkTypeContent, Content: "C"}, chunks[3])
	assert.Equal(t, domain.ChunkTypeDone, chunks[4].Type)
}

func TestChatStream_NoResults(t *testing.T) {
	answerGen := &fakeGenerator{fragments: []string{"should never stream"}}
	svc := newTestService(&fakeGenerator{}, answerGen, &fakeSearcher{}, nil)

	chunks := collect(svc.ChatStream(context.Background(), &domain.ChatRequest{Question: "q"}))
	require.Len(t, chunks, 3)
	assert.Equal(t, domain.StreamChunk{Type: domain.ChunkTypeSources, Sources: []string{}}, chunks[0])
	assert.Equal(t, domain.StreamChunk{Type: domain.ChunkTypeContent, Content: NoResultsAnswer}, chunks[1])
	assert.Equal(t, domain.ChunkTypeDone, chunks[2].Type)
	assert.Zero(t, answerGen.callCount())
}

func TestChatStream_GenerationFailureEndsWithError(t *testing.T) {
	answerGen := &fakeGenerator{err: errors.New("stream broke")}
	searcher := &fakeSearcher{matches: []domain.SectionMatch{{SectionNumber: "5", Text: "t"}}}
	svc := newTestService(&fakeGenerator{}, answerGen, searcher, nil)

	chunks := collect(svc.ChatStream(context.Background(), &domain.ChatRequest{Question: "q"}))
	require.Len(t, chunks, 2)
	assert.Equal(t, domain.ChunkTypeSources, chunks[0].Type)
	assert.Equal(t, domain.ChunkTypeError, chunks[1].Type)
}

func TestChatStream_RetrievalFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection reset")}
	svc := newTestService(&fakeGenerator{}, &fakeGenerator{}, searcher, nil)

	chunks := collect(svc.ChatStream(context.Background(), &domain.ChatRequest{Question: "q"}))
	require.Len(t, chunks, 1)
	assert.Equal(t, domain.ChunkTypeError, chunks[0].Type)
}

func TestChatStream_AbandonedStreamUnblocksPipeline(t *testing.T) {
	answerGen := &fakeGenerator{
		fragments:      []string{"A", "B", "C", "D"},
		streamReturned: make(chan struct{}),
	}
	searcher := &fakeSearcher{matches: []domain.SectionMatch{{SectionNumber: "5", Text: "t", Similarity: 0.8}}}
	svc := newTestService(&fakeGenerator{}, answerGen, searcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stream := svc.ChatStream(ctx, &domain.ChatRequest{Question: "q"})

	first := <-stream
	assert.Equal(t, domain.ChunkTypeSources, first.Type)

	// The client walks away mid-answer: nothing reads the channel anymore.
	cancel()

	select {
	case <-answerGen.streamReturned:
	case <-time.After(time.Second):
		t.Fatal("generation kept running after the stream was abandoned")
	}

	for {
		select {
		case _, ok := <-stream:
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("stream never closed after cancellation")
		}
	}
}
