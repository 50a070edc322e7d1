package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notekeep/notekeep/internal/models"
)

func TestFileConfigStoreMissingFile(t *testing.T) {
	s := NewFileConfigStore(filepath.Join(t.TempDir(), "config.json"))

	cfg, err := s.Read()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != nil {
		t.Error("missing file should yield a nil document")
	}
}

func TestFileConfigStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := &models.GlobalConfig{
		BotSettings: models.BotSettings{ChatEnabled: true},
		Prompts: map[models.RoleKey]models.PromptSpec{
			models.RoleChat: {Name: "Chat", Content: "hello"},
		},
	}
	if err := WriteConfigDocument(path, cfg); err != nil {
		t.Fatal(err)
	}

	back, err := NewFileConfigStore(path).Read()
	if err != nil {
		t.Fatal(err)
	}
	if back == nil || !back.BotSettings.ChatEnabled {
		t.Errorf("round trip lost settings: %+v", back)
	}
	if p, ok := back.Prompt(models.RoleChat); !ok || p.Content != "hello" {
		t.Errorf("round trip lost prompts: %+v", back)
	}
}

func TestFileConfigStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileConfigStore(path).Read(); err == nil {
		t.Error("corrupt document should surface a parse error")
	}
}

func TestFileProfileStoreMissingFile(t *testing.T) {
	s := NewFileProfileStore(filepath.Join(t.TempDir(), "profiles.json"))

	profiles, err := s.ReadAll()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected empty mapping, got %d entries", len(profiles))
	}
}

func TestFileProfileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s := NewFileProfileStore(path)

	in := map[string]*models.UserProfile{
		"42": {
			Prompts:      map[string]string{"Assistant": "help"},
			ActivePrompt: "Assistant",
			Model:        "anthropic/claude-3-haiku",
			ChatEnabled:  true,
		},
	}
	if err := s.WriteAll(in); err != nil {
		t.Fatal(err)
	}

	out, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	p, ok := out["42"]
	if !ok {
		t.Fatal("profile lost in round trip")
	}
	if p.ActivePrompt != "Assistant" || !p.ChatEnabled {
		t.Errorf("round trip mismatch: %+v", p)
	}
}

func TestFileProfileStoreWriteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "profiles.json")
	s := NewFileProfileStore(path)

	if err := s.WriteAll(map[string]*models.UserProfile{}); err != nil {
		t.Fatalf("write should create parent directories: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("profile document not written: %v", err)
	}
}

func TestFileProfileStoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s := NewFileProfileStore(path)

	s.WriteAll(map[string]*models.UserProfile{
		"1": {Prompts: map[string]string{"a": "x"}, ActivePrompt: "a"},
		"2": {Prompts: map[string]string{"a": "x"}, ActivePrompt: "a"},
	})
	s.WriteAll(map[string]*models.UserProfile{
		"1": {Prompts: map[string]string{"a": "x"}, ActivePrompt: "a"},
	})

	out, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("WriteAll should replace the mapping, got %d entries", len(out))
	}
}
