package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/profile"
	"github.com/notekeep/notekeep/internal/telegram"
	"github.com/notekeep/notekeep/internal/vecstore"
)

// Responder is the retrieval-augmented reply generator the control flow
// delegates to. Chat and Draft return final reply text (error text embedded
// on completion failure); Search returns raw snippets for the flow to
// render.
type Responder interface {
	Chat(ctx context.Context, userID, message string) string
	Search(ctx context.Context, userID, query string) []string
	Draft(ctx context.Context, userID, topic string) string
}

// ControlFlow handles events from the control/chat bot: menu callbacks,
// multi-step prompt management, and free-text chat. All profile mutations
// persist before the reply is sent.
type ControlFlow struct {
	messenger telegram.Messenger
	states    *StateManager
	profiles  *profile.Store
	resolver  *config.Resolver
	responder Responder
	notes     vecstore.VectorNotes
}

// NewControlFlow creates the control flow with its dependencies.
func NewControlFlow(messenger telegram.Messenger, states *StateManager, profiles *profile.Store, resolver *config.Resolver, responder Responder, notes vecstore.VectorNotes) *ControlFlow {
	slog.Debug("ControlFlow created", "hasResponder", responder != nil, "hasNotes", notes != nil)
	return &ControlFlow{
		messenger: messenger,
		states:    states,
		profiles:  profiles,
		resolver:  resolver,
		responder: responder,
		notes:     notes,
	}
}

// HandleUpdate routes one inbound update. Errors are contained per event:
// they are logged and never propagate to the transport shell.
func (f *ControlFlow) HandleUpdate(ctx context.Context, upd telegram.Update) {
	switch {
	case upd.CallbackQuery != nil:
		f.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.Text != "":
		f.handleMessage(ctx, upd.Message)
	default:
		slog.Debug("ControlFlow ignoring update without text or callback", "updateID", upd.UpdateID)
	}
}

// handleCallback processes a menu action selected from a prior reply.
func (f *ControlFlow) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.Message == nil {
		slog.Warn("ControlFlow callback without originating message", "callbackID", cb.ID)
		return
	}
	chatID := cb.Message.Chat.ID
	userID := strconv.FormatInt(chatID, 10)
	action := cb.Data

	slog.Debug("ControlFlow callback", "userID", userID, "action", action)

	if err := f.messenger.AnswerCallback(ctx, cb.ID); err != nil {
		slog.Warn("ControlFlow failed to acknowledge callback", "error", err, "callbackID", cb.ID)
	}

	switch {
	case action == ActionBackMain:
		p := f.profiles.Get(userID)
		f.sendKeyboard(ctx, chatID, consoleText(p), mainMenuKeyboard(p))

	case action == ActionPromptMenu:
		p := f.profiles.Get(userID)
		text := fmt.Sprintf("📝 Prompt library\n\nActive: %s\n\nContent:\n%s",
			p.ActivePrompt, p.ActivePromptContent(""))
		f.sendKeyboard(ctx, chatID, text, promptMenuKeyboard(p))

	case strings.HasPrefix(action, ActionPromptUsePrefix):
		f.usePrompt(ctx, chatID, userID, strings.TrimPrefix(action, ActionPromptUsePrefix))

	case action == ActionPromptNew:
		f.states.Set(userID, State{Kind: StateNewName})
		f.send(ctx, chatID, "Send a name for the new prompt:")

	case action == ActionPromptEdit:
		p := f.profiles.Get(userID)
		f.states.Set(userID, State{Kind: StateEdit})
		f.send(ctx, chatID, fmt.Sprintf("Current content:\n\n%s\n\nSend the new content:", p.ActivePromptContent("")))

	case action == ActionPromptDelete:
		f.deleteActivePrompt(ctx, chatID, userID)

	case action == ActionModelMenu:
		p := f.profiles.Get(userID)
		available := f.resolver.Resolve().AvailableModels
		text := "🤖 Choose a model\n\nCurrent: " + p.Model
		f.sendKeyboard(ctx, chatID, text, modelMenuKeyboard(p, available))

	case strings.HasPrefix(action, ActionModelPrefix):
		f.useModel(ctx, chatID, userID, strings.TrimPrefix(action, ActionModelPrefix))

	case action == ActionToggleChat:
		f.toggleChat(ctx, chatID, userID)

	case action == ActionDoSearch:
		f.states.Set(userID, State{Kind: StateSearch})
		f.send(ctx, chatID, "🔍 Send a search query:")

	case action == ActionDoDraft:
		f.states.Set(userID, State{Kind: StateDraft})
		f.send(ctx, chatID, "📄 Send a draft topic:")

	case action == ActionShowStats:
		count := f.notes.Count(ctx, userID)
		f.send(ctx, chatID, fmt.Sprintf("📊 Stats\n\nNotes stored: %d", count))

	default:
		slog.Warn("ControlFlow unrecognized menu action", "userID", userID, "action", action)
	}
}

// handleMessage processes free text, consuming any pending state first.
func (f *ControlFlow) handleMessage(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(chatID, 10)
	text := msg.Text

	if text == "/start" || text == "/menu" {
		p := f.profiles.Get(userID)
		f.sendKeyboard(ctx, chatID, consoleText(p), mainMenuKeyboard(p))
		return
	}

	// Look up and clear the pending state in one step so this input can
	// never be consumed twice.
	st := f.states.Take(userID)
	slog.Debug("ControlFlow message", "userID", userID, "pendingState", st.Kind, "length", len(text))

	switch st.Kind {
	case StateSearch:
		f.renderSearch(ctx, chatID, userID, text)

	case StateDraft:
		f.send(ctx, chatID, "⏳ Generating...")
		f.send(ctx, chatID, f.responder.Draft(ctx, userID, text))

	case StateNewName:
		f.states.Set(userID, State{Kind: StateNewContent, PromptName: text})
		f.send(ctx, chatID, fmt.Sprintf("Send the content for %q:", text))

	case StateNewContent:
		f.createPrompt(ctx, chatID, userID, st.PromptName, text)

	case StateEdit:
		f.editActivePrompt(ctx, chatID, userID, text)

	case StateIdle:
		p := f.profiles.Get(userID)
		if !p.ChatEnabled {
			// Chat replies are silently dropped while the toggle is off.
			slog.Debug("ControlFlow chat disabled, dropping free text", "userID", userID)
			return
		}
		f.send(ctx, chatID, f.responder.Chat(ctx, userID, text))
	}
}

// usePrompt switches the active prompt, rejecting names not in the library.
func (f *ControlFlow) usePrompt(ctx context.Context, chatID int64, userID, name string) {
	_, err := f.profiles.Update(userID, func(p *models.UserProfile) error {
		if _, ok := p.Prompts[name]; !ok {
			return models.ErrUnknownPrompt
		}
		p.ActivePrompt = name
		return nil
	})
	if err != nil {
		f.send(ctx, chatID, "❌ No prompt named "+name)
		return
	}
	f.send(ctx, chatID, "✓ Switched to: "+name)
}

// deleteActivePrompt removes the active prompt when at least two remain,
// reassigning the active name to any surviving entry.
func (f *ControlFlow) deleteActivePrompt(ctx context.Context, chatID int64, userID string) {
	var deleted string
	_, err := f.profiles.Update(userID, func(p *models.UserProfile) error {
		if len(p.Prompts) <= 1 {
			return models.ErrLastPrompt
		}
		deleted = p.ActivePrompt
		delete(p.Prompts, deleted)
		for name := range p.Prompts {
			p.ActivePrompt = name
			break
		}
		return nil
	})
	if err != nil {
		f.send(ctx, chatID, "❌ At least one prompt must remain")
		return
	}
	f.send(ctx, chatID, "✓ Deleted: "+deleted)
}

// createPrompt inserts a prompt under the recorded name and makes it active.
func (f *ControlFlow) createPrompt(ctx context.Context, chatID int64, userID, name, content string) {
	_, err := f.profiles.Update(userID, func(p *models.UserProfile) error {
		if p.Prompts == nil {
			p.Prompts = make(map[string]string)
		}
		p.Prompts[name] = content
		p.ActivePrompt = name
		return nil
	})
	if err != nil {
		slog.Error("ControlFlow createPrompt failed", "error", err, "userID", userID)
		return
	}
	f.send(ctx, chatID, "✓ Created: "+name)
}

// editActivePrompt overwrites the active prompt's content.
func (f *ControlFlow) editActivePrompt(ctx context.Context, chatID int64, userID, content string) {
	_, err := f.profiles.Update(userID, func(p *models.UserProfile) error {
		p.Prompts[p.ActivePrompt] = content
		return nil
	})
	if err != nil {
		slog.Error("ControlFlow editActivePrompt failed", "error", err, "userID", userID)
		return
	}
	f.send(ctx, chatID, "✓ Updated")
}

// useModel switches the user's model. Unknown ids are allowed; they pass
// through to the completion call and fail there.
func (f *ControlFlow) useModel(ctx context.Context, chatID int64, userID, modelID string) {
	_, err := f.profiles.Update(userID, func(p *models.UserProfile) error {
		p.Model = modelID
		return nil
	})
	if err != nil {
		slog.Error("ControlFlow useModel failed", "error", err, "userID", userID)
		return
	}
	f.send(ctx, chatID, "✓ Model switched to: "+shortModelName(modelID))
}

// toggleChat flips the chat-enabled flag.
func (f *ControlFlow) toggleChat(ctx context.Context, chatID int64, userID string) {
	p, err := f.profiles.Update(userID, func(p *models.UserProfile) error {
		p.ChatEnabled = !p.ChatEnabled
		return nil
	})
	if err != nil {
		slog.Error("ControlFlow toggleChat failed", "error", err, "userID", userID)
		return
	}
	if p.ChatEnabled {
		f.send(ctx, chatID, "💬 AI chat enabled")
	} else {
		f.send(ctx, chatID, "💬 AI chat disabled")
	}
}

// renderSearch formats search results as a numbered list, or a distinct
// not-found reply for an empty result set.
func (f *ControlFlow) renderSearch(ctx context.Context, chatID int64, userID, query string) {
	snippets := f.responder.Search(ctx, userID, query)
	if len(snippets) == 0 {
		f.send(ctx, chatID, "No matching notes found")
		return
	}
	var b strings.Builder
	b.WriteString("🔍 Results:\n")
	for i, snippet := range snippets {
		b.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, snippet))
	}
	f.send(ctx, chatID, b.String())
}

func (f *ControlFlow) send(ctx context.Context, chatID int64, text string) {
	if err := f.messenger.SendMessage(ctx, chatID, text); err != nil {
		slog.Error("ControlFlow failed to send message", "error", err, "chatID", chatID)
	}
}

func (f *ControlFlow) sendKeyboard(ctx context.Context, chatID int64, text string, kb telegram.InlineKeyboardMarkup) {
	if err := f.messenger.SendKeyboard(ctx, chatID, text, kb); err != nil {
		slog.Error("ControlFlow failed to send keyboard", "error", err, "chatID", chatID)
	}
}
