package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MinMatches)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 5, cfg.MaxProfileActions)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.StoreTTL)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "min_matches: 5\ntop_n: 20\nllm:\n  provider: gemini\n  model: gemini-2.0-flash\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MinMatches)
	assert.Equal(t, 20, cfg.TopN)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.MaxProfileActions)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_matches: 5\n"), 0o644))

	t.Setenv("CRICMETRICS_MIN_MATCHES", "7")
	t.Setenv("CRICMETRICS_LLM__PROVIDER", "none")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MinMatches)
	assert.Equal(t, "none", cfg.LLM.Provider)
}

func TestLoadRejectsInvalidFloor(t *testing.T) {
	t.Setenv("CRICMETRICS_MIN_MATCHES", "0")
	_, err := Load("")
	assert.Error(t, err)
}
