package flow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/telegram"
)

// Menu action tags carried in callback data. Prefixed tags embed a prompt
// name or model id after the prefix.
const (
	ActionBackMain     = "back_main"
	ActionPromptMenu   = "prompt_menu"
	ActionModelMenu    = "model_menu"
	ActionToggleChat   = "toggle_chat"
	ActionShowStats    = "show_stats"
	ActionDoSearch     = "do_search"
	ActionDoDraft      = "do_draft"
	ActionPromptNew    = "p_new"
	ActionPromptEdit   = "p_edit"
	ActionPromptDelete = "p_del"

	ActionPromptUsePrefix = "p_use_"
	ActionModelPrefix     = "m_"
)

// shortModelName trims the provider prefix from a model id for display,
// e.g. "anthropic/claude-3-haiku" -> "claude-3-haiku".
func shortModelName(modelID string) string {
	if idx := strings.LastIndex(modelID, "/"); idx >= 0 && idx < len(modelID)-1 {
		return modelID[idx+1:]
	}
	return modelID
}

// chatStatusLabel renders the chat toggle state.
func chatStatusLabel(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// consoleText renders the control console status header.
func consoleText(p *models.UserProfile) string {
	return fmt.Sprintf("🎛 Control console\n\nPrompt: %s\nModel: %s\nAI chat: %s",
		p.ActivePrompt, shortModelName(p.Model), chatStatusLabel(p.ChatEnabled))
}

// mainMenuKeyboard builds the top-level menu.
func mainMenuKeyboard(p *models.UserProfile) telegram.InlineKeyboardMarkup {
	chatMark := "🔴"
	if p.ChatEnabled {
		chatMark = "🟢"
	}
	return telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "📝 Prompt library", CallbackData: ActionPromptMenu}},
		{{Text: "🤖 Switch model", CallbackData: ActionModelMenu}},
		{{Text: "💬 AI chat " + chatMark, CallbackData: ActionToggleChat}},
		{
			{Text: "🔍 Search", CallbackData: ActionDoSearch},
			{Text: "📄 Draft", CallbackData: ActionDoDraft},
		},
		{{Text: "📊 Stats", CallbackData: ActionShowStats}},
	}}
}

// promptMenuKeyboard lists the user's prompts with the active one marked,
// followed by the management rows.
func promptMenuKeyboard(p *models.UserProfile) telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	for _, name := range sortedPromptNames(p) {
		label := name
		if name == p.ActivePrompt {
			label = "✓ " + name
		}
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: label, CallbackData: ActionPromptUsePrefix + name},
		})
	}
	rows = append(rows,
		[]telegram.InlineKeyboardButton{{Text: "➕ New", CallbackData: ActionPromptNew}},
		[]telegram.InlineKeyboardButton{{Text: "✏️ Edit active", CallbackData: ActionPromptEdit}},
		[]telegram.InlineKeyboardButton{{Text: "🗑 Delete active", CallbackData: ActionPromptDelete}},
		[]telegram.InlineKeyboardButton{{Text: "« Back", CallbackData: ActionBackMain}},
	)
	return telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// modelMenuKeyboard lists the selectable models with the current one marked.
func modelMenuKeyboard(p *models.UserProfile, available []models.AvailableModel) telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	for _, m := range available {
		label := m.Name
		if m.ID == p.Model {
			label = "✓ " + m.Name
		}
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: label, CallbackData: ActionModelPrefix + m.ID},
		})
	}
	rows = append(rows, []telegram.InlineKeyboardButton{{Text: "« Back", CallbackData: ActionBackMain}})
	return telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// sortedPromptNames returns the prompt names in a stable display order.
func sortedPromptNames(p *models.UserProfile) []string {
	names := make([]string, 0, len(p.Prompts))
	for name := range p.Prompts {
		names = append(names, name)
	}
	// Insertion order is not tracked, so sort for a stable menu.
	sort.Strings(names)
	return names
}
