// Package testutil provides common test utilities and fakes for NoteKeep tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/openai/openai-go"

	"github.com/notekeep/notekeep/internal/telegram"
)

// FakeMessenger records outbound Telegram calls for assertions.
type FakeMessenger struct {
	mu        sync.Mutex
	Messages  []SentMessage
	Keyboards []SentKeyboard
	Answered  []string
}

// SentMessage is one recorded SendMessage call.
type SentMessage struct {
	ChatID int64
	Text   string
}

// SentKeyboard is one recorded SendKeyboard call.
type SentKeyboard struct {
	ChatID   int64
	Text     string
	Keyboard telegram.InlineKeyboardMarkup
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{}
}

func (f *FakeMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, SentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *FakeMessenger) SendKeyboard(ctx context.Context, chatID int64, text string, kb telegram.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Keyboards = append(f.Keyboards, SentKeyboard{ChatID: chatID, Text: text, Keyboard: kb})
	return nil
}

func (f *FakeMessenger) AnswerCallback(ctx context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Answered = append(f.Answered, callbackID)
	return nil
}

// LastMessage returns the most recent plain message, or an empty value.
func (f *FakeMessenger) LastMessage() SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Messages) == 0 {
		return SentMessage{}
	}
	return f.Messages[len(f.Messages)-1]
}

// MessageCount returns how many plain messages were sent.
func (f *FakeMessenger) MessageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Messages)
}

// FakeNotes is an in-memory note index with naive keyword matching.
type FakeNotes struct {
	mu   sync.Mutex
	Docs []string
	// FailAdd makes Add report failure without storing.
	FailAdd bool
}

func NewFakeNotes(docs ...string) *FakeNotes {
	return &FakeNotes{Docs: docs}
}

func (f *FakeNotes) Add(ctx context.Context, ownerID, document string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAdd {
		return false
	}
	f.Docs = append(f.Docs, document)
	return true
}

func (f *FakeNotes) Query(ctx context.Context, ownerID, query string, limit int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	type scored struct {
		doc   string
		score int
	}
	var hits []scored
	terms := strings.Fields(strings.ToLower(query))
	for _, doc := range f.Docs {
		lower := strings.ToLower(doc)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{doc: doc, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	var out []string
	for _, h := range hits {
		if len(out) >= limit {
			break
		}
		out = append(out, h.doc)
	}
	return out
}

func (f *FakeNotes) Count(ctx context.Context, ownerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Docs)
}

// FakeCompleter returns canned completions and records what it was asked.
type FakeCompleter struct {
	mu sync.Mutex
	// Response is returned from every Complete call unless Err is set.
	Response string
	Err      error
	Calls    []CompletionCall
}

// CompletionCall captures the arguments of one Complete invocation.
type CompletionCall struct {
	ModelID   string
	System    string
	User      string
	MaxTokens int64
}

func (f *FakeCompleter) Complete(ctx context.Context, modelID string, messages []openai.ChatCompletionMessageParamUnion, maxTokens int64) (string, error) {
	call := CompletionCall{ModelID: modelID, MaxTokens: maxTokens}
	for _, m := range messages {
		if m.OfSystem != nil {
			call.System = m.OfSystem.Content.OfString.Value
		}
		if m.OfUser != nil {
			call.User = m.OfUser.Content.OfString.Value
		}
	}
	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

// LastCall returns the most recent completion call.
func (f *FakeCompleter) LastCall(t *testing.T) CompletionCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		t.Fatal("no completion calls recorded")
	}
	return f.Calls[len(f.Calls)-1]
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes a JSON response body and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}

// MustMarshalJSON marshals an object to JSON and fails the test on error.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}

// MustUnmarshalJSON unmarshals JSON data into target and fails the test on error.
func MustUnmarshalJSON(t *testing.T, data []byte, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}
}

// TextUpdate builds an inbound Telegram message update for a chat.
func TextUpdate(chatID int64, text string) telegram.Update {
	return telegram.Update{
		Message: &telegram.Message{
			Chat: telegram.Chat{ID: chatID},
			Text: text,
		},
	}
}

// CallbackUpdate builds an inbound callback query update for a chat.
func CallbackUpdate(chatID int64, data string) telegram.Update {
	return telegram.Update{
		CallbackQuery: &telegram.CallbackQuery{
			ID:   fmt.Sprintf("cb-%d", chatID),
			Data: data,
			Message: &telegram.Message{
				Chat: telegram.Chat{ID: chatID},
			},
		},
	}
}
