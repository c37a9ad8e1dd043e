// Package ollama implements the Completer interface against a local Ollama
// server's /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client is a text-completion client for Ollama.
type Client struct {
	baseURL    string
	model      string
	client     *http.Client
	maxRetries int
}

// Config configures the Ollama completion client.
type Config struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// NewClient creates a new completion client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, errors.New("ollama model is required")
	}
	if cfg.URL == "" {
		cfg.URL = "http://localhost:11434"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}, nil
}

// Name returns the identifier of this completion backend.
func (c *Client) Name() string { return "ollama" }

// Complete sends the prompt (prefixed by the instruction, when set) and
// returns the generated text. Transient server errors are retried with
// exponential backoff before giving up.
func (c *Client) Complete(ctx context.Context, instruction, prompt string) (string, error) {
	type reqBody struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		System string `json:"system,omitempty"`
		Stream bool   `json:"stream"`
	}
	url := c.baseURL + "/api/generate"
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		body := reqBody{Model: c.model, Prompt: prompt, System: instruction}
		data, _ := json.Marshal(body)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return "", err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					_ = resp.Body.Close()
					time.Sleep(time.Duration(secs) * time.Second)
				} else {
					_ = resp.Body.Close()
					time.Sleep(retryDelay(attempt))
				}
			} else {
				_ = resp.Body.Close()
				time.Sleep(retryDelay(attempt))
			}
			if attempt < c.maxRetries {
				continue
			}
			return "", fmt.Errorf("ollama generate failed: %s", resp.Status)
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return "", fmt.Errorf("ollama generate failed: %s", resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return "", err
		}
		var out struct {
			Response string `json:"response"`
			Error    string `json:"error"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return "", fmt.Errorf("decode ollama response: %w", err)
		}
		if out.Error != "" {
			return "", fmt.Errorf("ollama: %s", out.Error)
		}
		return strings.TrimSpace(out.Response), nil
	}
	return "", errors.New("no completion returned")
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
