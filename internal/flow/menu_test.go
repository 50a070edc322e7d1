package flow

import (
	"strings"
	"testing"

	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/telegram"
)

type telegramButton = telegram.InlineKeyboardButton

func TestShortModelName(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"anthropic/claude-3-haiku", "claude-3-haiku"},
		{"openai/gpt-4o-mini", "gpt-4o-mini"},
		{"no-provider", "no-provider"},
		{"trailing/", "trailing/"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shortModelName(tt.id); got != tt.expected {
			t.Errorf("shortModelName(%q) = %q, want %q", tt.id, got, tt.expected)
		}
	}
}

func TestConsoleText(t *testing.T) {
	p := &models.UserProfile{
		Prompts:      map[string]string{"Writer": "w"},
		ActivePrompt: "Writer",
		Model:        "openai/gpt-4o",
		ChatEnabled:  true,
	}
	text := consoleText(p)
	for _, want := range []string{"Prompt: Writer", "Model: gpt-4o", "AI chat: on"} {
		if !strings.Contains(text, want) {
			t.Errorf("console text missing %q:\n%s", want, text)
		}
	}

	p.ChatEnabled = false
	if !strings.Contains(consoleText(p), "AI chat: off") {
		t.Errorf("console text should show chat off:\n%s", consoleText(p))
	}
}

func TestMainMenuKeyboardChatMark(t *testing.T) {
	p := &models.UserProfile{Prompts: map[string]string{"a": "x"}, ActivePrompt: "a"}

	kb := mainMenuKeyboard(p)
	if !keyboardHasButton(kb.InlineKeyboard, "💬 AI chat 🔴", ActionToggleChat) {
		t.Error("expected red chat mark when chat disabled")
	}

	p.ChatEnabled = true
	kb = mainMenuKeyboard(p)
	if !keyboardHasButton(kb.InlineKeyboard, "💬 AI chat 🟢", ActionToggleChat) {
		t.Error("expected green chat mark when chat enabled")
	}
}

func TestPromptMenuKeyboardMarksActiveAndSorts(t *testing.T) {
	p := &models.UserProfile{
		Prompts:      map[string]string{"Zebra": "z", "Alpha": "a", "Mid": "m"},
		ActivePrompt: "Mid",
	}
	kb := promptMenuKeyboard(p)

	// The prompt rows come first, alphabetically.
	var labels, data []string
	for _, row := range kb.InlineKeyboard[:3] {
		labels = append(labels, row[0].Text)
		data = append(data, row[0].CallbackData)
	}
	wantLabels := []string{"Alpha", "✓ Mid", "Zebra"}
	for i, want := range wantLabels {
		if labels[i] != want {
			t.Errorf("prompt row %d label = %q, want %q", i, labels[i], want)
		}
	}
	wantData := []string{"p_use_Alpha", "p_use_Mid", "p_use_Zebra"}
	for i, want := range wantData {
		if data[i] != want {
			t.Errorf("prompt row %d callback = %q, want %q", i, data[i], want)
		}
	}

	for _, action := range []string{ActionPromptNew, ActionPromptEdit, ActionPromptDelete, ActionBackMain} {
		if !keyboardHasCallback(kb.InlineKeyboard, action) {
			t.Errorf("prompt menu missing management action %q", action)
		}
	}
}

func TestModelMenuKeyboardMarksCurrent(t *testing.T) {
	p := &models.UserProfile{
		Prompts:      map[string]string{"a": "x"},
		ActivePrompt: "a",
		Model:        "openai/gpt-4o",
	}
	available := []models.AvailableModel{
		{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku"},
		{ID: "openai/gpt-4o", Name: "GPT-4o"},
	}
	kb := modelMenuKeyboard(p, available)

	if !keyboardHasButton(kb.InlineKeyboard, "Claude 3 Haiku", "m_anthropic/claude-3-haiku") {
		t.Error("expected unmarked row for non-current model")
	}
	if !keyboardHasButton(kb.InlineKeyboard, "✓ GPT-4o", "m_openai/gpt-4o") {
		t.Error("expected marked row for the current model")
	}
	if !keyboardHasCallback(kb.InlineKeyboard, ActionBackMain) {
		t.Error("model menu missing back action")
	}
}

func keyboardHasButton(rows [][]telegramButton, text, data string) bool {
	for _, row := range rows {
		for _, b := range row {
			if b.Text == text && b.CallbackData == data {
				return true
			}
		}
	}
	return false
}

func keyboardHasCallback(rows [][]telegramButton, data string) bool {
	for _, row := range rows {
		for _, b := range row {
			if b.CallbackData == data {
				return true
			}
		}
	}
	return false
}
