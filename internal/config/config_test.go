package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "GEMINI_TIMEOUT_SEC",
		"SKETCHFAB_BASE_URL", "SKETCHFAB_TIMEOUT_SEC",
		"DATABASE_URL", "LOG_LEVEL", "METRICS_ADDR", "RATE_LIMIT_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sketchfab.BaseURL != "https://api.sketchfab.com" {
		t.Errorf("Sketchfab.BaseURL = %q", cfg.Sketchfab.BaseURL)
	}
	if cfg.Sketchfab.Timeout != 30*time.Second {
		t.Errorf("Sketchfab.Timeout = %v, want 30s", cfg.Sketchfab.Timeout)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d, want 30", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SKETCHFAB_BASE_URL", "http://localhost:8080")
	t.Setenv("SKETCHFAB_TIMEOUT_SEC", "5")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sketchfab.BaseURL != "http://localhost:8080" {
		t.Errorf("Sketchfab.BaseURL = %q", cfg.Sketchfab.BaseURL)
	}
	if cfg.Sketchfab.Timeout != 5*time.Second {
		t.Errorf("Sketchfab.Timeout = %v, want 5s", cfg.Sketchfab.Timeout)
	}
	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("Gemini.APIKey = %q", cfg.Gemini.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Gemini:    GeminiConfig{Timeout: time.Second},
		Sketchfab: SketchfabConfig{Timeout: time.Second},
		RateLimit: RateLimitConfig{RequestsPerMinute: 1},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	cfg.Sketchfab.Timeout = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
		t.Errorf("Validate() = %v, want ErrInvalidTimeout", err)
	}

	cfg.Sketchfab.Timeout = time.Second
	cfg.RateLimit.RequestsPerMinute = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidRateLimit) {
		t.Errorf("Validate() = %v, want ErrInvalidRateLimit", err)
	}
}
