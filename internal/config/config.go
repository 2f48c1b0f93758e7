package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrInvalidTimeout   = errors.New("timeout must be positive")
	ErrInvalidRateLimit = errors.New("rate limit must be positive")
)

type Config struct {
	Gemini    GeminiConfig
	Sketchfab SketchfabConfig
	Sink      SinkConfig
	Log       LogConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type SketchfabConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SinkConfig struct {
	// DatabaseURL selects the Postgres dataset sink when set; otherwise
	// records go to stdout as JSON lines.
	DatabaseURL string
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	// Addr enables the /metrics endpoint when set, e.g. ":9090".
	Addr string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() (*Config, error) {
	cfg := &Config{
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout: time.Duration(getEnvIntOrDefault("GEMINI_TIMEOUT_SEC", 60)) * time.Second,
		},
		Sketchfab: SketchfabConfig{
			BaseURL: getEnvOrDefault("SKETCHFAB_BASE_URL", "https://api.sketchfab.com"),
			Timeout: time.Duration(getEnvIntOrDefault("SKETCHFAB_TIMEOUT_SEC", 30)) * time.Second,
		},
		Sink: SinkConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Gemini.Timeout <= 0 || c.Sketchfab.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
