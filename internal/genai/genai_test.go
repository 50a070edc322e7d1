package genai

import "testing"

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := NewClient(); err == nil {
		t.Error("expected error when no API key is available")
	}
}

func TestNewClientWithExplicitKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := NewClient(WithAPIKey("sk-test")); err != nil {
		t.Errorf("explicit key should suffice: %v", err)
	}
}

func TestNewClientEnvFallback(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-openrouter")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := NewClient(); err != nil {
		t.Errorf("OPENROUTER_API_KEY should be picked up: %v", err)
	}

	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	if _, err := NewClient(); err != nil {
		t.Errorf("OPENAI_API_KEY should be picked up: %v", err)
	}
}
