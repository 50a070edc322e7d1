// Package models defines user profile structures for NoteKeep.
package models

import (
	"encoding/json"
	"fmt"
)

// UserProfile holds a user's prompt library and chat preferences. Profiles
// are keyed by chat id, created lazily from the global configuration, and
// mutated only by the conversation state machine.
type UserProfile struct {
	Prompts      map[string]string `json:"prompts"`
	ActivePrompt string            `json:"activePrompt"`
	Model        string            `json:"model"`
	ChatEnabled  bool              `json:"chatEnabled"`
}

// Validate ensures the profile invariants hold: the prompt library is never
// empty and the active prompt always references an existing entry.
func (p *UserProfile) Validate() error {
	if len(p.Prompts) == 0 {
		return ErrNoPrompts
	}
	if _, ok := p.Prompts[p.ActivePrompt]; !ok {
		return fmt.Errorf("active prompt %q not present in prompt library", p.ActivePrompt)
	}
	return nil
}

// ActivePromptContent returns the content of the active prompt, or the
// fallback when the library is inconsistent. The engine must never be
// blocked by a malformed profile.
func (p *UserProfile) ActivePromptContent(fallback string) string {
	if content, ok := p.Prompts[p.ActivePrompt]; ok && content != "" {
		return content
	}
	return fallback
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	cp := *p
	cp.Prompts = make(map[string]string, len(p.Prompts))
	for name, content := range p.Prompts {
		cp.Prompts[name] = content
	}
	return &cp
}

// ToJSON serializes the profile for storage backends that keep one document
// per user.
func (p *UserProfile) ToJSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user profile: %w", err)
	}
	return string(data), nil
}

// FromJSON deserializes a profile document.
func (p *UserProfile) FromJSON(jsonStr string) error {
	if err := json.Unmarshal([]byte(jsonStr), p); err != nil {
		return fmt.Errorf("failed to unmarshal user profile: %w", err)
	}
	return nil
}
