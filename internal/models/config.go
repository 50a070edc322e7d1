// Package models defines the core data structures for NoteKeep.
//
// It includes the editable global configuration document, per-user profiles,
// and the shared API response types used by the HTTP surfaces.
package models

// RoleKey identifies a fixed functional category used to bind default
// prompts and models in the global configuration.
type RoleKey string

const (
	// RoleCollect processes messages sent to the collector bot.
	RoleCollect RoleKey = "collect"
	// RoleChat drives retrieval-augmented chat replies.
	RoleChat RoleKey = "chat"
	// RoleDraft generates content drafts from saved notes.
	RoleDraft RoleKey = "draft"
	// RoleSummary condenses long text into a short summary.
	RoleSummary RoleKey = "summary"
	// RoleVoice transcribes voice messages.
	RoleVoice RoleKey = "voice"
)

// BotSettings holds process-wide feature flags edited through the admin
// surface. CollectFeedback is a pointer so a document that omits the key can
// be told apart from one that sets it to false; its default is on.
type BotSettings struct {
	CollectFeedback *bool  `json:"collectFeedback,omitempty"`
	ChatEnabled     bool   `json:"chatEnabled"`
	WebhookURL      string `json:"webhookUrl"`
}

// CollectFeedbackEnabled reports whether collector feedback is on, treating
// a missing value as enabled.
func (b BotSettings) CollectFeedbackEnabled() bool {
	if b.CollectFeedback == nil {
		return true
	}
	return *b.CollectFeedback
}

// Bool returns a pointer to v, for populating optional settings fields.
func Bool(v bool) *bool {
	return &v
}

// PromptSpec is a named system-instruction template bound to a role key.
type PromptSpec struct {
	Name        string `json:"name"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// ModelSpec binds a role key to a model-provider identifier. The ID is an
// opaque string passed through to the completion backend unmodified.
type ModelSpec struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AvailableModel is one entry of the model list offered for user selection.
type AvailableModel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Speed      string `json:"speed"`
	Capability string `json:"capability"`
}

// GlobalConfig is the externally editable settings document. It is owned by
// the admin surface and read whole on every resolution; the engine must
// tolerate any sub-tree being absent.
type GlobalConfig struct {
	BotSettings     BotSettings            `json:"botSettings"`
	Prompts         map[RoleKey]PromptSpec `json:"prompts"`
	Models          map[RoleKey]ModelSpec  `json:"models"`
	AvailableModels []AvailableModel       `json:"availableModels"`
}

// Prompt returns the prompt spec for a role key, reporting whether it exists.
func (c *GlobalConfig) Prompt(role RoleKey) (PromptSpec, bool) {
	if c == nil || c.Prompts == nil {
		return PromptSpec{}, false
	}
	p, ok := c.Prompts[role]
	return p, ok
}

// Model returns the model spec for a role key, reporting whether it exists.
func (c *GlobalConfig) Model(role RoleKey) (ModelSpec, bool) {
	if c == nil || c.Models == nil {
		return ModelSpec{}, false
	}
	m, ok := c.Models[role]
	return m, ok
}
