package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/internal/telegram"
	"github.com/notekeep/notekeep/internal/vecstore"
)

// FeedbackGenerator produces the short acknowledgment feedback for a
// collected note. The second return reports whether feedback is available;
// on failure the caller skips feedback silently rather than surfacing an
// error into the collecting flow.
type FeedbackGenerator interface {
	CollectFeedback(ctx context.Context, content string) (string, bool)
}

// CollectFlow handles events from the collector bot: free text is saved as
// a note and acknowledged through the control bot, optionally with a short
// AI feedback line.
type CollectFlow struct {
	input    telegram.Messenger
	output   telegram.Messenger
	notes    vecstore.VectorNotes
	resolver *config.Resolver
	feedback FeedbackGenerator
}

// NewCollectFlow creates the collector flow. The input messenger replies to
// commands on the collector bot itself; note acknowledgments go out through
// the control bot so the collector stays silent.
func NewCollectFlow(input, output telegram.Messenger, notes vecstore.VectorNotes, resolver *config.Resolver, feedback FeedbackGenerator) *CollectFlow {
	return &CollectFlow{
		input:    input,
		output:   output,
		notes:    notes,
		resolver: resolver,
		feedback: feedback,
	}
}

// HandleUpdate routes one inbound collector-bot update.
func (f *CollectFlow) HandleUpdate(ctx context.Context, upd telegram.Update) {
	msg := upd.Message
	if msg == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(chatID, 10)
	text := msg.Text

	switch {
	case text == "/start":
		f.sendInput(ctx, chatID, "📥 Send anything and it is saved silently.\n\nSend /stats to see your note count")

	case text == "/stats":
		count := f.notes.Count(ctx, userID)
		f.sendInput(ctx, chatID, fmt.Sprintf("📊 %d notes collected", count))

	case strings.HasPrefix(text, "/"):
		slog.Debug("CollectFlow ignoring unknown command", "userID", userID, "command", text)

	default:
		f.collect(ctx, chatID, userID, text)
	}
}

// collect saves a note and, when collect feedback is enabled, acknowledges
// it through the control bot. Feedback generation failure degrades to a
// plain acknowledgment.
func (f *CollectFlow) collect(ctx context.Context, chatID int64, userID, text string) {
	saved := f.notes.Add(ctx, userID, text)
	settings := f.resolver.CollectSettings()
	if !saved || !settings.Enabled {
		slog.Debug("CollectFlow note handled without acknowledgment", "userID", userID, "saved", saved, "feedbackEnabled", settings.Enabled)
		return
	}

	ack := "📝 Note received"
	if feedback, ok := f.feedback.CollectFeedback(ctx, text); ok && feedback != "" {
		ack += "\n\n" + feedback
	}
	if err := f.output.SendMessage(ctx, chatID, ack); err != nil {
		slog.Error("CollectFlow failed to send acknowledgment", "error", err, "chatID", chatID)
	}
}

func (f *CollectFlow) sendInput(ctx context.Context, chatID int64, text string) {
	if err := f.input.SendMessage(ctx, chatID, text); err != nil {
		slog.Error("CollectFlow failed to send message", "error", err, "chatID", chatID)
	}
}
