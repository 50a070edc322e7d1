// Package genai provides completion calls against an OpenAI-compatible API.
//
// The default base URL points at OpenRouter, so model identifiers are
// opaque provider strings like "anthropic/claude-3-haiku". Unknown ids pass
// through and fail at the provider.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultBaseURL is the OpenRouter-compatible completion endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// ClientInterface defines the completion operation used by the responder,
// allowing test doubles.
type ClientInterface interface {
	// Complete issues a single completion call for the given model and
	// role-tagged messages, bounded to maxTokens output tokens.
	Complete(ctx context.Context, modelID string, messages []openai.ChatCompletionMessageParamUnion, maxTokens int64) (string, error)
}

// Opts holds configuration options for the completion client.
type Opts struct {
	APIKey  string
	BaseURL string
}

// Option defines a configuration option for the completion client.
type Option func(*Opts)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL overrides the completion endpoint.
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// Client wraps the OpenAI chat completion service.
type Client struct {
	client openai.Client
}

// NewClient initializes a completion client. The API key falls back to the
// OPENROUTER_API_KEY / OPENAI_API_KEY environment variables.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	slog.Debug("GenAI client config loaded", "APIKey_set", cfg.APIKey != "", "baseURL", cfg.BaseURL)

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion API key not set")
	}

	cli := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)
	return &Client{client: cli}, nil
}

// Complete issues one completion call and returns the generated text.
func (c *Client) Complete(ctx context.Context, modelID string, messages []openai.ChatCompletionMessageParamUnion, maxTokens int64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(modelID),
		Messages:  messages,
		MaxTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
