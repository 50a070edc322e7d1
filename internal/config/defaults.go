package config

import "github.com/notekeep/notekeep/internal/models"

// Hardcoded fallback values used when the corresponding sub-key is missing
// at any depth of the config document. The engine must never be blocked by
// a malformed or partially written document.
const (
	FallbackCollectPrompt = "You are an information collector. You understand the intent behind every note a user sends. Reply warmly and briefly, in 50 words or fewer."
	FallbackCollectModel  = "anthropic/claude-3-haiku"
	FallbackChatPrompt    = "You are an assistant that helps using the user's note library."
	FallbackChatModel     = "anthropic/claude-3-haiku"
	FallbackDraftPrompt   = "Generate a social media post from the user's saved material. Keep the style concise and punchy."
	FallbackDraftModel    = "openai/gpt-4o-mini"
	FallbackSeedPrompt    = "You are a concise, helpful personal assistant."
	FallbackSeedName      = "Assistant"
)

// DefaultConfig returns the built-in configuration document, used whenever
// no external document exists or the stored one cannot be parsed. The admin
// surface also seeds its first config file from this.
func DefaultConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		BotSettings: models.BotSettings{
			CollectFeedback: models.Bool(true),
			ChatEnabled:     false,
			WebhookURL:      "",
		},
		Prompts: map[models.RoleKey]models.PromptSpec{
			models.RoleCollect: {
				Name:        "Note Collector",
				Content:     FallbackCollectPrompt,
				Description: "Handles messages sent to the collector bot",
			},
			models.RoleChat: {
				Name:        "Chat Assistant",
				Content:     FallbackChatPrompt,
				Description: "Used for AI chat conversations",
			},
			models.RoleDraft: {
				Name:        "Draft Writer",
				Content:     FallbackDraftPrompt,
				Description: "Used when generating content drafts",
			},
			models.RoleSummary: {
				Name:        "Summarizer",
				Content:     "Compress long text into a concise summary that keeps the key points.",
				Description: "Used when generating summaries",
			},
		},
		Models: map[models.RoleKey]models.ModelSpec{
			models.RoleCollect: {ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Description: "Fast responses"},
			models.RoleChat:    {ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Description: "Everyday chat"},
			models.RoleDraft:   {ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Description: "Creative writing"},
			models.RoleVoice:   {ID: "openai/whisper-1", Name: "Whisper", Description: "Voice transcription"},
		},
		AvailableModels: []models.AvailableModel{
			{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Speed: "fast", Capability: "medium"},
			{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", Speed: "medium", Capability: "strong"},
			{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Speed: "fast", Capability: "medium"},
			{ID: "openai/gpt-4o", Name: "GPT-4o", Speed: "medium", Capability: "strong"},
			{ID: "google/gemini-flash-1.5", Name: "Gemini 1.5 Flash", Speed: "fast", Capability: "medium"},
			{ID: "google/gemini-pro-1.5", Name: "Gemini 1.5 Pro", Speed: "medium", Capability: "strong"},
			{ID: "meta-llama/llama-3.1-70b-instruct", Name: "Llama 3.1 70B", Speed: "slow", Capability: "strong"},
		},
	}
}
