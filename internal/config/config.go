package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details for a local Ollama server.
type OllamaConfig struct {
	URL         string `yaml:"url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// OpenAIConfig holds configuration for an OpenAI-compatible completion API.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig selects and configures the text-completion backend.
type LLMConfig struct {
	Type   string        `yaml:"type"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// StoreConfig selects and configures the note store implementation.
type StoreConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// ImportConfig configures which files the folder importer picks up.
type ImportConfig struct {
	Extensions []string `yaml:"extensions"`
}

// AskConfig configures question answering.
type AskConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Store  StoreConfig  `yaml:"store"`
	LLM    LLMConfig    `yaml:"llm"`
	Import ImportConfig `yaml:"import"`
	Ask    AskConfig    `yaml:"ask"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./chestnut.yaml first, then ~/.config/chestnut/config.yaml.
// If neither exists, it writes defaults to ~/.config/chestnut/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "chestnut.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chestnut", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Store: StoreConfig{Type: "sqlite", Path: "chestnut.db"},
		LLM: LLMConfig{
			Type:   "ollama",
			Ollama: &OllamaConfig{URL: "http://localhost:11434", Model: "llama3.1:8b", TimeoutSecs: 60},
		},
		Import: ImportConfig{Extensions: []string{".txt", ".md", ".markdown", ".rst", ".log", ".text"}},
		Ask:    AskConfig{TopK: 5},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Store.Type == "" {
		cfg.Store.Type = "sqlite"
	}
	if cfg.Store.Type == "sqlite" && cfg.Store.Path == "" {
		cfg.Store.Path = "chestnut.db"
	}
	if len(cfg.Import.Extensions) == 0 {
		cfg.Import.Extensions = []string{".txt", ".md", ".markdown", ".rst", ".log", ".text"}
	}
	if cfg.Ask.TopK == 0 {
		cfg.Ask.TopK = 5
	}
	if cfg.LLM.Type == "" {
		cfg.LLM.Type = "ollama"
	}
	if cfg.LLM.Type == "ollama" {
		if cfg.LLM.Ollama == nil {
			cfg.LLM.Ollama = &OllamaConfig{}
		}
		if cfg.LLM.Ollama.URL == "" {
			cfg.LLM.Ollama.URL = "http://localhost:11434"
		}
		if cfg.LLM.Ollama.Model == "" {
			cfg.LLM.Ollama.Model = "llama3.1:8b"
		}
		if cfg.LLM.Ollama.TimeoutSecs == 0 {
			cfg.LLM.Ollama.TimeoutSecs = 60
		}
	}
	if cfg.LLM.Type == "openai" && cfg.LLM.OpenAI != nil {
		if cfg.LLM.OpenAI.BaseURL == "" {
			cfg.LLM.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.LLM.OpenAI.APIKeyEnv == "" {
			cfg.LLM.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.LLM.OpenAI.Model == "" {
			cfg.LLM.OpenAI.Model = "gpt-4o-mini"
		}
		if cfg.LLM.OpenAI.TimeoutSecs == 0 {
			cfg.LLM.OpenAI.TimeoutSecs = 60
		}
	}
}
