package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "chestnut.db", cfg.Store.Path)
	assert.Equal(t, "ollama", cfg.LLM.Type)
	assert.Equal(t, "llama3.1:8b", cfg.LLM.Ollama.Model)
	assert.Equal(t, 5, cfg.Ask.TopK)
	assert.Contains(t, cfg.Import.Extensions, ".md")
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  path: notes.db
llm:
  type: openai
  openai:
    model: gpt-4o
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "notes.db", cfg.Store.Path)
	assert.Equal(t, "openai", cfg.LLM.Type)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.OpenAI.APIKeyEnv)
	assert.Equal(t, 60, cfg.LLM.OpenAI.TimeoutSecs)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.yaml")
	cfg := defaultConfig()
	cfg.Ask.TopK = 9

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Ask.TopK)
	assert.Equal(t, cfg.Store, loaded.Store)
}
