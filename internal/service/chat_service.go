package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// NoResultsAnswer is returned when no statute passage clears the similarity
// threshold. The generator is never invoked in that case.
const NoResultsAnswer = "ขออภัยครับ ไม่พบข้อมูลกฎหมายที่เกี่ยวข้องกับเรื่องนี้ในฐานข้อมูล"

// ChatService sequences the answering pipeline:
// normalize, rewrite, retrieve, assemble, generate.
type ChatService struct {
	normalizer  Normalizer
	rewriter    *Rewriter
	retriever   *Retriever
	answerer    *Answerer
	transcripts TranscriptStore // nil disables transcript persistence
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	normalizer Normalizer,
	rewriter *Rewriter,
	retriever *Retriever,
	answerer *Answerer,
	transcripts TranscriptStore,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		normalizer:  normalizer,
		rewriter:    rewriter,
		retriever:   retriever,
		answerer:    answerer,
		transcripts: transcripts,
		logger:      logger,
	}
}

// buildSearchQuery runs the shared front half of the pipeline: normalize the
// raw question, rewrite it against the history, then normalize the rewritten
// query so the vector search always sees canonical, segmented text.
func (s *ChatService) buildSearchQuery(ctx context.Context, req *domain.ChatRequest) string {
	cleaned := s.normalizer.Normalize(req.Question)
	s.logger.Debug("normalized question", zap.String("cleaned", cleaned))

	searchQuery := s.rewriter.Rewrite(ctx, cleaned, req.History)
	return s.normalizer.Normalize(searchQuery)
}

// Chat answers a question in full mode.
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	searchQuery := s.buildSearchQuery(ctx, req)

	matches, err := s.retriever.Retrieve(ctx, searchQuery)
	if err != nil {
		return nil, err
	}

	resp := &domain.ChatResponse{Sources: []string{}}
	if len(matches) == 0 {
		resp.Answer = NoResultsAnswer
	} else {
		grounding, citations := BuildGrounding(matches)

		answer, err := s.answerer.Answer(ctx, grounding, searchQuery)
		if err != nil {
			return nil, err
		}
		resp.Answer = answer
		resp.Sources = citations
	}

	resp.SessionID = s.persistTurn(req, resp.Answer, resp.Sources)
	return resp, nil
}

// ChatStream answers a question in streaming mode. The returned channel
// carries exactly one sources chunk first, then content chunks in generation
// order, then a done chunk; an error chunk ends the stream early. Content
// already delivered before a failure is not retracted. When the caller's
// context is cancelled the pipeline goroutine stops delivering, aborts any
// in-flight generation and exits, so an abandoned stream leaks nothing.
func (s *ChatService) ChatStream(ctx context.Context, req *domain.ChatRequest) <-chan domain.StreamChunk {
	ch := make(chan domain.StreamChunk)

	// send delivers one chunk unless the caller is gone.
	send := func(chunk domain.StreamChunk) bool {
		select {
		case ch <- chunk:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)

		searchQuery := s.buildSearchQuery(ctx, req)

		matches, err := s.retriever.Retrieve(ctx, searchQuery)
		if err != nil {
			s.logger.Error("retrieval failed", zap.Error(err))
			send(domain.StreamChunk{Type: domain.ChunkTypeError, Content: err.Error()})
			return
		}

		if len(matches) == 0 {
			if !send(domain.StreamChunk{Type: domain.ChunkTypeSources, Sources: []string{}}) ||
				!send(domain.StreamChunk{Type: domain.ChunkTypeContent, Content: NoResultsAnswer}) ||
				!send(domain.StreamChunk{Type: domain.ChunkTypeDone}) {
				return
			}
			s.persistTurn(req, NoResultsAnswer, []string{})
			return
		}

		grounding, citations := BuildGrounding(matches)

		// Citations are known before generation starts, so the caller can
		// show sources without waiting for the answer.
		if !send(domain.StreamChunk{Type: domain.ChunkTypeSources, Sources: citations}) {
			return
		}

		var answer string
		err = s.answerer.AnswerStream(ctx, grounding, searchQuery, func(fragment string) error {
			answer += fragment
			select {
			case ch <- domain.StreamChunk{Type: domain.ChunkTypeContent, Content: fragment}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			s.logger.Error("generation failed", zap.Error(err))
			send(domain.StreamChunk{Type: domain.ChunkTypeError, Content: err.Error()})
			return
		}

		if !send(domain.StreamChunk{Type: domain.ChunkTypeDone}) {
			return
		}
		s.persistTurn(req, answer, citations)
	}()

	return ch
}

// persistTurn saves the question and answer to the session transcript.
// The transcript is an audit log: persistence failure is logged, never
// surfaced to the caller.
func (s *ChatService) persistTurn(req *domain.ChatRequest, answer string, sources []string) string {
	if s.transcripts == nil {
		return ""
	}

	sessionID := req.SessionID
	if sessionID == "" {
		session := &domain.Session{}
		if err := s.transcripts.CreateSession(session); err != nil {
			s.logger.Warn("failed to create session", zap.Error(err))
			return ""
		}
		sessionID = session.ID
	}

	if err := s.transcripts.SaveMessage(&domain.Message{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   req.Question,
	}); err != nil {
		s.logger.Warn("failed to save user message", zap.Error(err))
	}

	if err := s.transcripts.SaveMessage(&domain.Message{
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   answer,
		Sources:   sources,
	}); err != nil {
		s.logger.Warn("failed to save assistant message", zap.Error(err))
	}

	if err := s.transcripts.TouchSession(sessionID); err != nil {
		s.logger.Warn("failed to touch session", zap.Error(err))
	}

	return sessionID
}
