package domain

import "time"

// Role values carried in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single entry in the conversation history supplied by the client.
// Order is chronological and meaningful.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request to ask a question. History is held by the caller
// across turns; the server only reads it for query rewriting.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question" binding:"required"`
	History   []Turn `json:"history"`
}

// ChatResponse is the full-mode answer with its citation list.
type ChatResponse struct {
	SessionID string   `json:"session_id,omitempty"`
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
}

// Stream chunk types. The sources chunk is always emitted first; content
// chunks follow in generation order.
const (
	ChunkTypeSources = "sources"
	ChunkTypeContent = "content"
	ChunkTypeDone    = "done"
	ChunkTypeError   = "error"
)

// StreamChunk represents one frame in an SSE stream.
type StreamChunk struct {
	Type    string   `json:"type"`
	Content string   `json:"content,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// Session represents a stored chat session transcript.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one persisted transcript entry.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
