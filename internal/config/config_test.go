package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "hf_test")

	cfg := Load()
	if cfg.Port != "8095" {
		t.Errorf("expected default port 8095, got %q", cfg.Port)
	}
	if cfg.SummaryModel != "facebook/bart-large-cnn" {
		t.Errorf("unexpected default summary model: %q", cfg.SummaryModel)
	}
	if cfg.QAModel != "distilbert-base-cased-distilled-squad" {
		t.Errorf("unexpected default qa model: %q", cfg.QAModel)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("expected 50MB upload cap, got %d", cfg.MaxUploadBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "hf_test")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("TRANSCRIPT_LANGUAGE", "de")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024 byte cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.TranscriptLanguage != "de" {
		t.Errorf("expected language de, got %q", cfg.TranscriptLanguage)
	}
}

func TestValidateRequiresToken(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without HF_API_TOKEN")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "hf_test")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("MAX_UPLOAD_BYTES", "many")

	cfg := Load()
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected fallback TTL, got %v", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("expected fallback upload cap, got %d", cfg.MaxUploadBytes)
	}
}
