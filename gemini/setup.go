package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// GenerationConfig mirrors the generation settings the client may
// override in its setup message
type GenerationConfig struct {
	ResponseModalities []string `json:"response_modalities"`
	Language           string   `json:"language"`
	Temperature        float32  `json:"temperature"`
	CandidateCount     int32    `json:"candidate_count"`
}

// SetupConfig is the session configuration negotiated during the
// handshake. Built once per connection, immutable afterwards.
type SetupConfig struct {
	GenerationConfig GenerationConfig  `json:"generation_config"`
	SafetySettings   map[string]string `json:"safety_settings"`
}

// DefaultSetup returns the fixed configuration used when the client
// sends no overrides: audio+text responses, English, all four harm
// category blocks disabled.
func DefaultSetup() SetupConfig {
	return SetupConfig{
		GenerationConfig: GenerationConfig{
			ResponseModalities: []string{"AUDIO", "TEXT"},
			Language:           "en",
			Temperature:        0.7,
			CandidateCount:     1,
		},
		SafetySettings: map[string]string{
			"harassment":        "block_none",
			"hate_speech":       "block_none",
			"sexually_explicit": "block_none",
			"dangerous_content": "block_none",
		},
	}
}

// MergeSetup overlays a client-supplied setup map over the defaults.
// The merge is shallow: a top-level key from the client replaces the
// whole default value for that key, nested keys are not merged.
func MergeSetup(overrides map[string]json.RawMessage) (SetupConfig, error) {
	defaults, err := sonic.Marshal(DefaultSetup())
	if err != nil {
		return SetupConfig{}, fmt.Errorf("failed to encode default setup: %w", err)
	}

	base := map[string]json.RawMessage{}
	if err := sonic.Unmarshal(defaults, &base); err != nil {
		return SetupConfig{}, fmt.Errorf("failed to decode default setup: %w", err)
	}

	for k, v := range overrides {
		base[k] = v
	}

	merged, err := sonic.Marshal(base)
	if err != nil {
		return SetupConfig{}, fmt.Errorf("failed to encode merged setup: %w", err)
	}

	var cfg SetupConfig
	if err := sonic.Unmarshal(merged, &cfg); err != nil {
		return SetupConfig{}, fmt.Errorf("invalid setup overrides: %w", err)
	}

	return cfg, nil
}

var harmCategories = map[string]genai.HarmCategory{
	"harassment":        genai.HarmCategoryHarassment,
	"hate_speech":       genai.HarmCategoryHateSpeech,
	"sexually_explicit": genai.HarmCategorySexuallyExplicit,
	"dangerous_content": genai.HarmCategoryDangerousContent,
}

var blockThresholds = map[string]genai.HarmBlockThreshold{
	"block_none":             genai.HarmBlockThresholdBlockNone,
	"block_only_high":        genai.HarmBlockThresholdBlockOnlyHigh,
	"block_medium_and_above": genai.HarmBlockThresholdBlockMediumAndAbove,
	"block_low_and_above":    genai.HarmBlockThresholdBlockLowAndAbove,
}

// safetySettings translates the setup's safety map into SDK settings.
// Unknown categories or thresholds are skipped.
func (c SetupConfig) safetySettings() []*genai.SafetySetting {
	settings := make([]*genai.SafetySetting, 0, len(c.SafetySettings))
	for category, threshold := range c.SafetySettings {
		cat, ok := harmCategories[category]
		if !ok {
			continue
		}
		thr, ok := blockThresholds[threshold]
		if !ok {
			continue
		}
		settings = append(settings, &genai.SafetySetting{
			Category:  cat,
			Threshold: thr,
		})
	}
	return settings
}
