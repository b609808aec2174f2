// Package llm wraps the OpenAI-compatible chat completion endpoint used for
// query rewriting and answer generation.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/kritsadaw/asklaw/internal/config"
)

// ErrEmptyResponse indicates the model returned no choices.
var ErrEmptyResponse = errors.New("model returned no choices")

// Client is a thin wrapper over an OpenAI-compatible chat model.
// Safe for concurrent use; each call is an independent network request.
type Client struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

// New creates a client for the configured endpoint.
func New(cfg config.LLMConfig) (*Client, error) {
	token := cfg.APIKey
	if token == "" {
		// Local OpenAI-compatible servers reject an empty bearer token
		// but accept any non-empty one.
		token = "none"
	}

	model, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	return &Client{
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Generate issues a single blocking completion request and returns the full text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

// GenerateStream issues a completion request and forwards each text fragment
// to emit as it arrives, in generation order. Returning an error from emit
// aborts the stream.
func (c *Client) GenerateStream(ctx context.Context, prompt string, emit func(fragment string) error) error {
	_, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return emit(string(chunk))
		}),
	)
	return err
}
