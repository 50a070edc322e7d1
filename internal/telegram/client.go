package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultAPIBaseURL is the Telegram Bot API endpoint.
const DefaultAPIBaseURL = "https://api.telegram.org"

// Messenger is the outbound transport contract consumed by the flows.
type Messenger interface {
	// SendMessage sends plain text to a chat.
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendKeyboard sends text with an attached inline keyboard.
	SendKeyboard(ctx context.Context, chatID int64, text string, keyboard InlineKeyboardMarkup) error

	// AnswerCallback acknowledges a callback query so the client stops
	// showing a progress indicator.
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Opts holds configuration options for a bot client.
type Opts struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// Option defines a configuration option for a bot client.
type Option func(*Opts)

// WithBaseURL overrides the Bot API endpoint (used in tests).
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.HTTPClient = c }
}

// Client talks to the Bot API for a single bot token.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a bot client for the given token.
func NewClient(token string, opts ...Option) (*Client, error) {
	cfg := Opts{Token: token}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token must be provided")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAPIBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{token: cfg.Token, baseURL: cfg.BaseURL, http: cfg.HTTPClient}, nil
}

// apiResult is the generic Bot API response envelope.
type apiResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// call posts a JSON payload to a Bot API method.
func (c *Client) call(ctx context.Context, method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	var result apiResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	if !result.OK {
		slog.Warn("Telegram API call rejected", "method", method, "description", result.Description, "status", resp.StatusCode)
		return fmt.Errorf("%s rejected: %s", method, result.Description)
	}
	return nil
}

// SendMessage sends plain text to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
}

// SendKeyboard sends text with an attached inline keyboard.
func (c *Client) SendKeyboard(ctx context.Context, chatID int64, text string, keyboard InlineKeyboardMarkup) error {
	return c.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id":      chatID,
		"text":         text,
		"reply_markup": keyboard,
	})
}

// AnswerCallback acknowledges a callback query.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
	})
}

// SetWebhook registers the webhook URL for this bot, restricted to the
// given update types.
func (c *Client) SetWebhook(ctx context.Context, url string, allowedUpdates []string) error {
	return c.call(ctx, "setWebhook", map[string]interface{}{
		"url":             url,
		"allowed_updates": allowedUpdates,
	})
}
