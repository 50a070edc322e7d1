// Package responder orchestrates retrieval and completion calls into final
// reply text for chat, search, draft, and note-feedback operations.
package responder

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"

	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/internal/genai"
	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/profile"
	"github.com/notekeep/notekeep/internal/vecstore"
)

// Responder composes note retrieval, prompt/model resolution, and a single
// completion call per operation. Retrieval failures degrade to empty
// results; completion failures surface as visible error text (or absence,
// for collect feedback) and are never retried.
type Responder struct {
	genai    genai.ClientInterface
	notes    vecstore.VectorNotes
	profiles *profile.Store
	resolver *config.Resolver
}

// New creates a responder with its collaborators.
func New(genaiClient genai.ClientInterface, notes vecstore.VectorNotes, profiles *profile.Store, resolver *config.Resolver) *Responder {
	return &Responder{
		genai:    genaiClient,
		notes:    notes,
		profiles: profiles,
		resolver: resolver,
	}
}

// Chat generates a retrieval-augmented reply using the user's active prompt
// and selected model. Retrieved notes, when any, are appended to the system
// instruction as a labeled reference-material block. On completion failure
// the returned text embeds the failure reason.
func (r *Responder) Chat(ctx context.Context, userID, message string) string {
	p := r.profiles.Get(userID)
	notes := r.notes.Query(ctx, userID, message, models.MaxSearchResults)

	system := p.ActivePromptContent(config.FallbackSeedPrompt)
	if len(notes) > 0 {
		system += "\n\nReference material:\n" + strings.Join(notes, "\n")
	}

	slog.Debug("Responder chat", "userID", userID, "model", p.Model, "references", len(notes))
	reply, err := r.genai.Complete(ctx, p.Model, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(message),
	}, models.ChatMaxTokens)
	if err != nil {
		slog.Error("Responder chat completion failed", "error", err, "userID", userID, "model", p.Model)
		return "Error: " + err.Error()
	}
	return reply
}

// Search returns up to MaxSearchResults note snippets for the query, each
// truncated for display. An empty slice means nothing matched; the caller
// renders the distinct not-found reply.
func (r *Responder) Search(ctx context.Context, userID, query string) []string {
	notes := r.notes.Query(ctx, userID, query, models.MaxSearchResults)
	snippets := make([]string, 0, len(notes))
	for _, note := range notes {
		snippets = append(snippets, truncate(note, models.MaxSnippetLength))
	}
	slog.Debug("Responder search", "userID", userID, "results", len(snippets))
	return snippets
}

// Draft generates content for a topic from up to MaxDraftNotes retrieved
// notes, using the draft-role prompt/model pair. When no notes match, the
// material block carries a literal "none" marker.
func (r *Responder) Draft(ctx context.Context, userID, topic string) string {
	notes := r.notes.Query(ctx, userID, topic, models.MaxDraftNotes)
	settings := r.resolver.DraftSettings()

	material := strings.Join(notes, "\n")
	if material == "" {
		material = "none"
	}

	slog.Debug("Responder draft", "userID", userID, "model", settings.Model, "materialNotes", len(notes))
	reply, err := r.genai.Complete(ctx, settings.Model, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(settings.Prompt),
		openai.UserMessage("Topic: " + topic + "\nMaterial: " + material),
	}, models.DraftMaxTokens)
	if err != nil {
		slog.Error("Responder draft completion failed", "error", err, "userID", userID, "model", settings.Model)
		return "Error: " + err.Error()
	}
	return reply
}

// CollectFeedback generates the short acknowledgment feedback for a newly
// collected note using the collect-role prompt/model pair. The second
// return is false on failure so the collecting flow can skip feedback
// silently.
func (r *Responder) CollectFeedback(ctx context.Context, content string) (string, bool) {
	settings := r.resolver.CollectSettings()

	reply, err := r.genai.Complete(ctx, settings.Model, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(settings.Prompt),
		openai.UserMessage(content),
	}, models.CollectMaxTokens)
	if err != nil {
		slog.Error("Responder collect feedback failed", "error", err, "model", settings.Model)
		return "", false
	}
	return reply, true
}

// truncate shortens s to at most n characters for display, without
// splitting a multi-byte rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
