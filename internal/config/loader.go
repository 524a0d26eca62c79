package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from path, or CRICMETRICS_CONFIG when path is empty
//  3. env (prefix CRICMETRICS_, nested keys joined with __)
//
// A .env file in the working directory is folded into the environment first,
// so local API keys need no shell setup.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("CRICMETRICS_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// CRICMETRICS_MIN_MATCHES -> min_matches, CRICMETRICS_LLM__MODEL -> llm.model
	envProvider := env.Provider("CRICMETRICS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "cricmetrics_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.MinMatches < 1 {
		return nil, errors.New("min_matches must be at least 1")
	}
	if cfg.TopN < 1 {
		return nil, errors.New("top_n must be at least 1")
	}
	return &cfg, nil
}
