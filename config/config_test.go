package config

import (
	"testing"
	"time"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("DEBUG", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GOOGLE_API_KEY is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Host != "localhost" || cfg.Port != 9083 {
		t.Errorf("unexpected listen defaults: %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.LiveModel != "gemini-2.0-flash-exp" {
		t.Errorf("unexpected live model: %s", cfg.LiveModel)
	}
	if cfg.TranscriptionModel != "gemini-1.5-flash-8b" {
		t.Errorf("unexpected transcription model: %s", cfg.TranscriptionModel)
	}
	if cfg.SessionTimeout != 30*time.Minute {
		t.Errorf("unexpected session timeout: %v", cfg.SessionTimeout)
	}
	if cfg.MaxBufferSize != 5*1024*1024 {
		t.Errorf("unexpected buffer size: %d", cfg.MaxBufferSize)
	}
	if !cfg.Debug {
		t.Error("expected debug flag to be set")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("DEBUG", "true")
	t.Setenv("PORT", "8000")
	t.Setenv("MAX_SESSIONS", "5")
	t.Setenv("SESSION_TIMEOUT", "10")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Port)
	}
	if cfg.MaxSessions != 5 {
		t.Errorf("expected 5 max sessions, got %d", cfg.MaxSessions)
	}
	if cfg.SessionTimeout != 10*time.Minute {
		t.Errorf("expected 10m timeout, got %v", cfg.SessionTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("DEBUG", "true")
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}
