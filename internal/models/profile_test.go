package models

import (
	"errors"
	"testing"
)

func TestUserProfileValidate(t *testing.T) {
	p := &UserProfile{
		Prompts:      map[string]string{"Assistant": "help"},
		ActivePrompt: "Assistant",
	}
	if err := p.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	empty := &UserProfile{}
	if err := empty.Validate(); !errors.Is(err, ErrNoPrompts) {
		t.Errorf("expected ErrNoPrompts, got %v", err)
	}

	dangling := &UserProfile{
		Prompts:      map[string]string{"Assistant": "help"},
		ActivePrompt: "Ghost",
	}
	if err := dangling.Validate(); err == nil {
		t.Error("dangling active prompt should be rejected")
	}
}

func TestActivePromptContentFallback(t *testing.T) {
	p := &UserProfile{
		Prompts:      map[string]string{"Assistant": "help"},
		ActivePrompt: "Assistant",
	}
	if got := p.ActivePromptContent("fb"); got != "help" {
		t.Errorf("content = %q", got)
	}

	p.ActivePrompt = "Ghost"
	if got := p.ActivePromptContent("fb"); got != "fb" {
		t.Errorf("expected fallback for dangling active prompt, got %q", got)
	}

	p.Prompts["Empty"] = ""
	p.ActivePrompt = "Empty"
	if got := p.ActivePromptContent("fb"); got != "fb" {
		t.Errorf("expected fallback for empty content, got %q", got)
	}
}

func TestUserProfileClone(t *testing.T) {
	p := &UserProfile{
		Prompts:      map[string]string{"a": "1"},
		ActivePrompt: "a",
		Model:        "m",
		ChatEnabled:  true,
	}
	c := p.Clone()
	c.Prompts["b"] = "2"
	c.ActivePrompt = "b"

	if _, ok := p.Prompts["b"]; ok {
		t.Error("clone shares the prompt map with the original")
	}
	if p.ActivePrompt != "a" {
		t.Error("clone mutation leaked into the original")
	}
}

func TestUserProfileJSONRoundTrip(t *testing.T) {
	p := &UserProfile{
		Prompts:      map[string]string{"Assistant": "help"},
		ActivePrompt: "Assistant",
		Model:        "anthropic/claude-3-haiku",
		ChatEnabled:  true,
	}
	data, err := p.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	var back UserProfile
	if err := back.FromJSON(data); err != nil {
		t.Fatal(err)
	}
	if back.ActivePrompt != p.ActivePrompt || back.Model != p.Model || !back.ChatEnabled {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.Prompts["Assistant"] != "help" {
		t.Errorf("prompts lost in round trip: %v", back.Prompts)
	}
}
