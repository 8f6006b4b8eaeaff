package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	NotexAPIKey string

	// Inference capabilities
	HFAPIToken       string
	HFAPIURL         string
	SummaryModel     string
	QAModel          string
	InferenceTimeout time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Session state
	SessionTTL time.Duration

	// Transcript fetching
	TranscriptLanguage string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8095"),

		NotexAPIKey: os.Getenv("NOTEX_API_KEY"),

		HFAPIToken:       os.Getenv("HF_API_TOKEN"),
		HFAPIURL:         envOr("HF_API_URL", "https://api-inference.huggingface.co"),
		SummaryModel:     envOr("SUMMARY_MODEL", "facebook/bart-large-cnn"),
		QAModel:          envOr("QA_MODEL", "distilbert-base-cased-distilled-squad"),
		InferenceTimeout: envDuration("INFERENCE_TIMEOUT", 120*time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		TranscriptLanguage: envOr("TRANSCRIPT_LANGUAGE", "en"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.InferenceTimeout <= 0 {
		cfg.InferenceTimeout = 120 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.HFAPIToken == "" {
		return fmt.Errorf("HF_API_TOKEN is required")
	}
	if c.SummaryModel == "" {
		return fmt.Errorf("SUMMARY_MODEL must not be empty")
	}
	if c.QAModel == "" {
		return fmt.Errorf("QA_MODEL must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
