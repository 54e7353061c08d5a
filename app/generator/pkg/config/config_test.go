package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
llm:
  base_url: https://api.example.com/v1
  api_key: sk-test
  model: gpt-4o-mini
search:
  provider: searxng
  searxng:
    base_url: http://localhost:8888
log:
  level: debug
concurrency:
  rpm: 30
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:8888", cfg.Search.SearXNG.BaseURL)
	assert.Equal(t, 30, cfg.Concurrency.RPM)
	assert.Equal(t, 1, cfg.Concurrency.QPS)
	assert.Equal(t, 3, cfg.Concurrency.Workers)
	assert.Equal(t, 600, cfg.Remote.Timeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "mode: remote\n"))
	assert.EqualError(t, err, "remote.endpoint is required in remote mode")

	_, err = LoadConfig(writeConfig(t, "mode: batch\n"))
	assert.EqualError(t, err, "unknown generator mode: batch")

	_, err = LoadConfig(writeConfig(t, "llm: [\n"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := &Config{Mode: ModeRemote, Remote: RemoteConfig{Endpoint: "http://gen:5000"}}
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, 600, cfg.Remote.Timeout)
}
