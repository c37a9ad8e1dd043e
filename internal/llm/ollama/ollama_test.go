package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{URL: srv.URL, Model: "test-model"})
	require.NoError(t, err)
	return c
}

func TestCompleteSendsPromptAndInstruction(t *testing.T) {
	var got struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		System string `json:"system"`
		Stream bool   `json:"stream"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"response": " generated text \n"})
	})

	text, err := c.Complete(context.Background(), "summarize this", "note content")
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, "note content", got.Prompt)
	assert.Equal(t, "summarize this", got.System)
	assert.False(t, got.Stream)
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "recovered"})
	})

	text, err := c.Complete(context.Background(), "", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, attempts)
}

func TestCompleteSurfacesModelError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "model not found"})
	})

	_, err := c.Complete(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestCompleteClientErrorDoesNotRetry(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Complete(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestNewClientRequiresModel(t *testing.T) {
	_, err := NewClient(Config{URL: "http://localhost:11434"})
	assert.Error(t, err)
}
