// Package api provides the webhook HTTP surface for NoteKeep.
//
// It decodes Telegram webhook updates for the collector and control bots
// and hands them to the per-user dispatchers. The hard work happens in the
// flow package; this shell only parses, enqueues, and acknowledges.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notekeep/notekeep/internal/messaging"
	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/telegram"
)

// Server routes webhook deliveries to the bot dispatchers.
type Server struct {
	input  *messaging.Dispatcher
	output *messaging.Dispatcher
}

// NewServer creates the webhook server over the two bot dispatchers.
func NewServer(input, output *messaging.Dispatcher) *Server {
	return &Server{input: input, output: output}
}

// Router builds the chi router for the webhook surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/webhook/input", s.webhookHandler(s.input, "input"))
	r.Post("/webhook/output", s.webhookHandler(s.output, "output"))
	r.Get("/", s.health)
	return r
}

// webhookHandler decodes one update and enqueues it. Telegram expects a
// 200 regardless; a non-200 would make it retry the same update.
func (s *Server) webhookHandler(d *messaging.Dispatcher, bot string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd telegram.Update
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			slog.Warn("Webhook received undecodable update", "error", err, "bot", bot)
			w.WriteHeader(http.StatusOK)
			return
		}
		slog.Debug("Webhook update received", "bot", bot, "updateID", upd.UpdateID)
		d.Enqueue(upd)
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(models.Success(map[string]string{
		"status":  "ok",
		"mode":    "webhook",
		"service": "NoteKeep relay",
	})); err != nil {
		slog.Error("Health handler failed to encode response", "error", err)
	}
}

// RegisterWebhooks points both bots at the public webhook URL. Skipped
// with a warning when no URL is configured.
func RegisterWebhooks(ctx context.Context, publicURL string, input, output *telegram.Client) {
	if publicURL == "" {
		slog.Warn("WEBHOOK_URL not configured; set it and restart to receive updates")
		return
	}
	if err := input.SetWebhook(ctx, publicURL+"/webhook/input", []string{"message"}); err != nil {
		slog.Error("Failed to register input bot webhook", "error", err)
	} else {
		slog.Info("Input bot webhook registered")
	}
	if err := output.SetWebhook(ctx, publicURL+"/webhook/output", []string{"message", "callback_query"}); err != nil {
		slog.Error("Failed to register output bot webhook", "error", err)
	} else {
		slog.Info("Output bot webhook registered")
	}
}
