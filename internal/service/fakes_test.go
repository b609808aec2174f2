package service

import (
	"context"
	"sync"

	"github.com/kritsadaw/asklaw/internal/domain"
)

// passthroughNormalizer leaves text untouched.
type passthroughNormalizer struct{}

func (passthroughNormalizer) Normalize(text string) string { return text }

// fakeGenerator scripts the language model. When streamReturned is set it is
// closed once GenerateStream hands control back, so tests can wait for the
// streaming call to wind down.
type fakeGenerator struct {
	mu             sync.Mutex
	response       string
	fragments      []string
	err            error
	calls          int
	prompts        []string
	streamReturned chan struct{}
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) GenerateStream(_ context.Context, prompt string, emit func(string) error) error {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	err := f.err
	fragments := f.fragments
	returned := f.streamReturned
	f.mu.Unlock()

	if returned != nil {
		defer close(returned)
	}

	if err != nil {
		return err
	}
	for _, fragment := range fragments {
		if err := emit(fragment); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// fakeEmbedder returns a fixed vector.
type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

// fakeSearcher returns scripted matches.
type fakeSearcher struct {
	matches []domain.SectionMatch
	err     error
}

func (f *fakeSearcher) MatchSections(context.Context, []float32, float64, int) ([]domain.SectionMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

// memTranscripts records transcript writes in memory.
type memTranscripts struct {
	mu       sync.Mutex
	sessions []*domain.Session
	messages []*domain.Message
}

func (m *memTranscripts) CreateSession(session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.ID == "" {
		session.ID = "session-1"
	}
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *memTranscripts) TouchSession(string) error { return nil }

func (m *memTranscripts) SaveMessage(message *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *memTranscripts) savedMessages() []*domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Message(nil), m.messages...)
}
