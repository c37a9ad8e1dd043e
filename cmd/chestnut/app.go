package main

import (
	"fmt"
	"log/slog"
	"time"

	"chestnut/internal/answer"
	"chestnut/internal/config"
	"chestnut/internal/domain"
	"chestnut/internal/importer"
	"chestnut/internal/llm/ollama"
	"chestnut/internal/llm/openai"
	"chestnut/internal/ranker"
	"chestnut/internal/scheduler"
	"chestnut/internal/service"
	"chestnut/internal/store/memory"
	"chestnut/internal/store/sqlite"
	"chestnut/internal/summarizer"
)

// app bundles the assembled pipeline with what commands need around it.
type app struct {
	cfg      *config.AppConfig
	store    domain.NoteStore
	pipeline *service.Pipeline
}

func (a *app) Close() error { return a.store.Close() }

// newApp loads config and assembles the pipeline from the configured
// backends.
func newApp() (*app, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var store domain.NoteStore
	switch cfg.Store.Type {
	case "sqlite", "":
		store, err = sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	case "memory":
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store: %s", cfg.Store.Type)
	}

	var completer domain.Completer
	switch cfg.LLM.Type {
	case "ollama", "":
		completer, err = ollama.NewClient(ollama.Config{
			URL:     cfg.LLM.Ollama.URL,
			Model:   cfg.LLM.Ollama.Model,
			Timeout: time.Duration(cfg.LLM.Ollama.TimeoutSecs) * time.Second,
		})
	case "openai":
		if cfg.LLM.OpenAI == nil {
			store.Close()
			return nil, fmt.Errorf("openai llm config missing")
		}
		completer, err = openai.NewClient(openai.Config{
			BaseURL:   cfg.LLM.OpenAI.BaseURL,
			APIKeyEnv: cfg.LLM.OpenAI.APIKeyEnv,
			Model:     cfg.LLM.OpenAI.Model,
			Timeout:   time.Duration(cfg.LLM.OpenAI.TimeoutSecs) * time.Second,
		})
	default:
		store.Close()
		return nil, fmt.Errorf("unknown llm: %s", cfg.LLM.Type)
	}
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init llm: %w", err)
	}

	log := slog.Default()
	imp := importer.New(store, cfg.Import.Extensions, log)
	sched := scheduler.New(store, summarizer.New(completer), log)
	pipeline := service.New(store, imp, sched, ranker.NewOverlap(), answer.New(completer), log)
	return &app{cfg: cfg, store: store, pipeline: pipeline}, nil
}
