// Package config resolves the externally editable configuration document
// into effective settings for the engine.
//
// The document is read whole on every resolution so edits made through the
// admin surface take effect without a restart. Missing or corrupt documents
// never propagate as errors; every accessor falls back per field to the
// built-in defaults.
package config

import (
	"log/slog"

	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/store"
)

// CollectSettings is the effective configuration for the collector bot.
type CollectSettings struct {
	Prompt  string
	Model   string
	Enabled bool
}

// DraftSettings is the effective prompt/model pair for draft generation.
type DraftSettings struct {
	Prompt string
	Model  string
}

// Resolver merges the stored configuration document with built-in defaults.
type Resolver struct {
	docs store.ConfigDocumentStore
}

// NewResolver creates a resolver over the given config document store.
func NewResolver(docs store.ConfigDocumentStore) *Resolver {
	return &Resolver{docs: docs}
}

// read returns the raw stored document, or nil when none is available.
// Read and parse failures are swallowed here; config unavailability must
// never crash the bot.
func (r *Resolver) read() *models.GlobalConfig {
	cfg, err := r.docs.Read()
	if err != nil {
		slog.Error("Resolver failed to read config document, using defaults", "error", err)
		return nil
	}
	return cfg
}

// Resolve returns the latest stored document, or the built-in default
// document when none exists or parsing fails.
func (r *Resolver) Resolve() *models.GlobalConfig {
	if cfg := r.read(); cfg != nil {
		return cfg
	}
	return DefaultConfig()
}

// CollectSettings returns the effective collector-bot settings, falling
// back per field when the corresponding sub-key is missing.
func (r *Resolver) CollectSettings() CollectSettings {
	cfg := r.read()
	out := CollectSettings{
		Prompt:  FallbackCollectPrompt,
		Model:   FallbackCollectModel,
		Enabled: true,
	}
	if cfg == nil {
		return out
	}
	if p, ok := cfg.Prompt(models.RoleCollect); ok && p.Content != "" {
		out.Prompt = p.Content
	}
	if m, ok := cfg.Model(models.RoleCollect); ok && m.ID != "" {
		out.Model = m.ID
	}
	out.Enabled = cfg.BotSettings.CollectFeedbackEnabled()
	return out
}

// DraftSettings returns the effective draft prompt/model pair, falling back
// per field when the corresponding sub-key is missing.
func (r *Resolver) DraftSettings() DraftSettings {
	cfg := r.read()
	out := DraftSettings{
		Prompt: FallbackDraftPrompt,
		Model:  FallbackDraftModel,
	}
	if cfg == nil {
		return out
	}
	if p, ok := cfg.Prompt(models.RoleDraft); ok && p.Content != "" {
		out.Prompt = p.Content
	}
	if m, ok := cfg.Model(models.RoleDraft); ok && m.ID != "" {
		out.Model = m.ID
	}
	return out
}

// DefaultProfileSeed builds the profile a new user starts with. When a full
// config document is available the seed maps the fixed prompt role keys to
// their human-readable names; otherwise it holds a single minimal fallback
// prompt. The seed is a snapshot: later config edits do not retroactively
// change existing profiles.
func (r *Resolver) DefaultProfileSeed() *models.UserProfile {
	cfg := r.read()

	profile := &models.UserProfile{
		Prompts:     map[string]string{FallbackSeedName: FallbackSeedPrompt},
		Model:       FallbackChatModel,
		ChatEnabled: false,
	}

	if cfg != nil && len(cfg.Prompts) > 0 {
		prompts := make(map[string]string)
		for _, role := range []models.RoleKey{models.RoleCollect, models.RoleChat, models.RoleDraft, models.RoleSummary} {
			spec, ok := cfg.Prompt(role)
			if !ok {
				continue
			}
			name := spec.Name
			if name == "" {
				name = string(role)
			}
			content := spec.Content
			if content == "" {
				content = FallbackSeedPrompt
			}
			prompts[name] = content
		}
		if len(prompts) > 0 {
			profile.Prompts = prompts
		}
	}

	if cfg != nil {
		if m, ok := cfg.Model(models.RoleChat); ok && m.ID != "" {
			profile.Model = m.ID
		}
		profile.ChatEnabled = cfg.BotSettings.ChatEnabled
	}

	// Pick a stable starting prompt: prefer the chat role's name when
	// present, else any key.
	if cfg != nil {
		if spec, ok := cfg.Prompt(models.RoleChat); ok && spec.Name != "" {
			if _, exists := profile.Prompts[spec.Name]; exists {
				profile.ActivePrompt = spec.Name
			}
		}
	}
	if profile.ActivePrompt == "" {
		for name := range profile.Prompts {
			profile.ActivePrompt = name
			break
		}
	}
	return profile
}
