package gemini

import (
	"encoding/json"
	"testing"

	"google.golang.org/genai"
)

func TestDefaultSetup(t *testing.T) {
	cfg := DefaultSetup()

	if len(cfg.GenerationConfig.ResponseModalities) != 2 {
		t.Errorf("expected AUDIO+TEXT modalities, got %v", cfg.GenerationConfig.ResponseModalities)
	}
	if cfg.GenerationConfig.Language != "en" {
		t.Errorf("expected language en, got %q", cfg.GenerationConfig.Language)
	}
	if cfg.GenerationConfig.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", cfg.GenerationConfig.Temperature)
	}
	if cfg.GenerationConfig.CandidateCount != 1 {
		t.Errorf("expected candidate count 1, got %d", cfg.GenerationConfig.CandidateCount)
	}
	for _, category := range []string{"harassment", "hate_speech", "sexually_explicit", "dangerous_content"} {
		if cfg.SafetySettings[category] != "block_none" {
			t.Errorf("expected %s to default to block_none, got %q", category, cfg.SafetySettings[category])
		}
	}
}

func TestMergeSetupNoOverrides(t *testing.T) {
	cfg, err := MergeSetup(nil)
	if err != nil {
		t.Fatalf("merge error: %v", err)
	}
	if cfg.GenerationConfig.Temperature != 0.7 {
		t.Errorf("expected default temperature, got %v", cfg.GenerationConfig.Temperature)
	}
}

func TestMergeSetupShallow(t *testing.T) {
	// Overriding generation_config replaces the whole nested object;
	// keys omitted by the client fall back to zero values, not defaults.
	overrides := map[string]json.RawMessage{
		"generation_config": json.RawMessage(`{"response_modalities":["TEXT"],"temperature":0.2}`),
	}

	cfg, err := MergeSetup(overrides)
	if err != nil {
		t.Fatalf("merge error: %v", err)
	}
	if cfg.GenerationConfig.Temperature != 0.2 {
		t.Errorf("expected overridden temperature 0.2, got %v", cfg.GenerationConfig.Temperature)
	}
	if len(cfg.GenerationConfig.ResponseModalities) != 1 || cfg.GenerationConfig.ResponseModalities[0] != "TEXT" {
		t.Errorf("expected modalities [TEXT], got %v", cfg.GenerationConfig.ResponseModalities)
	}
	if cfg.GenerationConfig.Language != "" {
		t.Errorf("shallow merge must not preserve nested defaults, got language %q", cfg.GenerationConfig.Language)
	}
	// Untouched top-level keys keep their defaults
	if cfg.SafetySettings["harassment"] != "block_none" {
		t.Errorf("safety settings should keep defaults, got %q", cfg.SafetySettings["harassment"])
	}
}

func TestMergeSetupInvalidOverride(t *testing.T) {
	overrides := map[string]json.RawMessage{
		"generation_config": json.RawMessage(`"not an object"`),
	}
	if _, err := MergeSetup(overrides); err == nil {
		t.Fatal("expected error for malformed override")
	}
}

func TestSafetySettingsTranslation(t *testing.T) {
	cfg := DefaultSetup()
	settings := cfg.safetySettings()

	if len(settings) != 4 {
		t.Fatalf("expected 4 safety settings, got %d", len(settings))
	}
	for _, s := range settings {
		if s.Threshold != genai.HarmBlockThresholdBlockNone {
			t.Errorf("expected BLOCK_NONE threshold for %v, got %v", s.Category, s.Threshold)
		}
	}
}

func TestSafetySettingsSkipsUnknown(t *testing.T) {
	cfg := SetupConfig{SafetySettings: map[string]string{
		"harassment":   "block_none",
		"made_up":      "block_none",
		"hate_speech":  "made_up_threshold",
	}}
	settings := cfg.safetySettings()
	if len(settings) != 1 {
		t.Fatalf("expected only the valid pair to survive, got %d settings", len(settings))
	}
}
