package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates a malformed or incomplete request body
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates a missing or wrong API key
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmbeddingFailed indicates the embedding backend could not be reached or errored
	ErrEmbeddingFailed = errors.New("failed to embed query")
	// ErrRetrievalFailed indicates a transport or store error during similarity search
	ErrRetrievalFailed = errors.New("failed to retrieve legal context")
	// ErrGenerationFailed indicates the language model call failed
	ErrGenerationFailed = errors.New("failed to generate answer")
)
