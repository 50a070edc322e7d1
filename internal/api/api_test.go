package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/notekeep/notekeep/internal/messaging"
	"github.com/notekeep/notekeep/internal/telegram"
	"github.com/notekeep/notekeep/internal/testutil"
)

type updateRecorder struct {
	mu   sync.Mutex
	upds []telegram.Update
	got  chan struct{}
}

func newUpdateRecorder() *updateRecorder {
	return &updateRecorder{got: make(chan struct{}, 16)}
}

func (r *updateRecorder) handle(ctx context.Context, upd telegram.Update) {
	r.mu.Lock()
	r.upds = append(r.upds, upd)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func (r *updateRecorder) wait(t *testing.T) telegram.Update {
	t.Helper()
	select {
	case <-r.got:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatched update")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upds[len(r.upds)-1]
}

func (r *updateRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.upds)
}

func newTestAPI(t *testing.T) (*Server, *updateRecorder, *updateRecorder) {
	t.Helper()
	inputRec := newUpdateRecorder()
	outputRec := newUpdateRecorder()
	input := messaging.NewDispatcher(inputRec.handle)
	output := messaging.NewDispatcher(outputRec.handle)
	t.Cleanup(input.Stop)
	t.Cleanup(output.Stop)
	return NewServer(input, output), inputRec, outputRec
}

func TestWebhookInputDispatches(t *testing.T) {
	s, inputRec, outputRec := newTestAPI(t)

	upd := telegram.Update{
		UpdateID: 1,
		Message:  &telegram.Message{Chat: telegram.Chat{ID: 7}, Text: "a note"},
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, testutil.CreateHTTPRequest(t, http.MethodPost, "/webhook/input", upd))

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "POST /webhook/input")
	got := inputRec.wait(t)
	if got.Message == nil || got.Message.Text != "a note" {
		t.Errorf("dispatched update mismatch: %+v", got)
	}
	if outputRec.count() != 0 {
		t.Error("input update leaked to the output dispatcher")
	}
}

func TestWebhookOutputDispatchesCallback(t *testing.T) {
	s, _, outputRec := newTestAPI(t)

	upd := telegram.Update{
		UpdateID: 2,
		CallbackQuery: &telegram.CallbackQuery{
			ID:      "cb-1",
			Data:    "toggle_chat",
			Message: &telegram.Message{Chat: telegram.Chat{ID: 7}},
		},
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, testutil.CreateHTTPRequest(t, http.MethodPost, "/webhook/output", upd))

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "POST /webhook/output")
	got := outputRec.wait(t)
	if got.CallbackQuery == nil || got.CallbackQuery.Data != "toggle_chat" {
		t.Errorf("dispatched update mismatch: %+v", got)
	}
}

func TestWebhookUndecodableBodyStillAcknowledged(t *testing.T) {
	s, inputRec, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/input", strings.NewReader("{broken"))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	// A non-200 would make Telegram redeliver the same broken update.
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "POST broken webhook body")
	if inputRec.count() != 0 {
		t.Error("broken update should not be dispatched")
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestAPI(t)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, testutil.CreateHTTPRequest(t, http.MethodGet, "/", nil))

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "GET /")
	resp := testutil.AssertJSONResponse(t, rr, "ok")
	result, ok := resp["result"].(map[string]interface{})
	if !ok || result["mode"] != "webhook" {
		t.Errorf("unexpected health payload: %v", resp)
	}
}
