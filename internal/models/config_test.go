package models

import (
	"encoding/json"
	"testing"
)

func TestGlobalConfigAccessorsNilSafe(t *testing.T) {
	var nilCfg *GlobalConfig
	if _, ok := nilCfg.Prompt(RoleChat); ok {
		t.Error("nil config should report no prompt")
	}
	if _, ok := nilCfg.Model(RoleChat); ok {
		t.Error("nil config should report no model")
	}

	empty := &GlobalConfig{}
	if _, ok := empty.Prompt(RoleChat); ok {
		t.Error("empty config should report no prompt")
	}
}

func TestGlobalConfigAccessors(t *testing.T) {
	cfg := &GlobalConfig{
		Prompts: map[RoleKey]PromptSpec{RoleChat: {Name: "Chat", Content: "c"}},
		Models:  map[RoleKey]ModelSpec{RoleChat: {ID: "m"}},
	}
	if p, ok := cfg.Prompt(RoleChat); !ok || p.Name != "Chat" {
		t.Errorf("Prompt(chat) = %+v ok=%v", p, ok)
	}
	if _, ok := cfg.Prompt(RoleDraft); ok {
		t.Error("missing role should report not found")
	}
	if m, ok := cfg.Model(RoleChat); !ok || m.ID != "m" {
		t.Errorf("Model(chat) = %+v ok=%v", m, ok)
	}
}

func TestCollectFeedbackEnabled(t *testing.T) {
	if !(BotSettings{}).CollectFeedbackEnabled() {
		t.Error("unset collectFeedback should read as enabled")
	}
	if (BotSettings{CollectFeedback: Bool(false)}).CollectFeedbackEnabled() {
		t.Error("explicit false should read as disabled")
	}
	if !(BotSettings{CollectFeedback: Bool(true)}).CollectFeedbackEnabled() {
		t.Error("explicit true should read as enabled")
	}

	// A document that never mentions the key keeps feedback on after parsing.
	var cfg GlobalConfig
	if err := json.Unmarshal([]byte(`{"botSettings":{"chatEnabled":true}}`), &cfg); err != nil {
		t.Fatal(err)
	}
	if !cfg.BotSettings.CollectFeedbackEnabled() {
		t.Error("document omitting collectFeedback should leave it enabled")
	}
}

func TestGlobalConfigJSONKeys(t *testing.T) {
	cfg := &GlobalConfig{
		BotSettings: BotSettings{CollectFeedback: Bool(true), WebhookURL: "https://example.test"},
		Prompts:     map[RoleKey]PromptSpec{RoleCollect: {Name: "n"}},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// The document layout is part of the external editing contract.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"botSettings", "prompts", "models", "availableModels"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("serialized document missing key %q", key)
		}
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(raw["botSettings"], &settings); err != nil {
		t.Fatal(err)
	}
	if _, ok := settings["collectFeedback"]; !ok {
		t.Error("botSettings missing collectFeedback key")
	}
	if _, ok := settings["webhookUrl"]; !ok {
		t.Error("botSettings missing webhookUrl key")
	}
}
