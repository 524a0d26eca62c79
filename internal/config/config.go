// Package config defines process configuration. Values layer defaults, an
// optional YAML file, and CRICMETRICS_-prefixed environment variables.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MinMatches is the reliability floor for phase rankings.
	MinMatches int `koanf:"min_matches"`

	// TopN caps ranking output length.
	TopN int `koanf:"top_n"`

	// MaxProfileActions bounds per-player fan-out for one question.
	MaxProfileActions int `koanf:"max_profile_actions"`

	// Addr configures the HTTP listen address for serve mode.
	Addr string `koanf:"addr"`

	// StoreTTL bounds staleness of the serve-mode store snapshot.
	StoreTTL time.Duration `koanf:"store_ttl"`

	LLM LLMConfig `koanf:"llm"`
}

// LLMConfig selects and tunes the generation backend.
type LLMConfig struct {
	// Provider is "anthropic", "gemini", or "none" to disable generation
	// and answer from the local templates only.
	Provider string `koanf:"provider"`

	Model  string `koanf:"model"`
	APIKey string `koanf:"api_key"`

	// Timeout bounds a single generation call.
	Timeout time.Duration `koanf:"timeout"`

	MaxTokens int64 `koanf:"max_tokens"`
}

// New builds a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		MinMatches:        3,
		TopN:              10,
		MaxProfileActions: 5,
		Addr:              ":8080",
		StoreTTL:          5 * time.Minute,
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "claude-haiku-4-5-20251001",
			Timeout:   30 * time.Second,
			MaxTokens: 1024,
		},
	}
}
