package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

type completionRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
}

func TestComplete_SendsGreedyRequest(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"text_completion","choices":[{"text":"Airbyte supports over 300 connectors. See https://docs.airbyte.com/connectors","index":0,"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewCompleter(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	out, err := c.Complete(context.Background(), "prompt body", domain.GenerateOptions{Temperature: 0, MaxTokens: 256})
	require.NoError(t, err)

	assert.Equal(t, "Airbyte supports over 300 connectors. See https://docs.airbyte.com/connectors", out)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, "prompt body", got.Prompt)
	assert.Equal(t, 256, got.MaxTokens)
	require.NotNil(t, got.Temperature, "temperature must be present on the wire")
	assert.InDelta(t, 0, *got.Temperature, 1e-9)
}

func TestComplete_ReturnsTextVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"text":"\n\n  padded answer  \n"}]}`))
	}))
	defer srv.Close()

	c := NewCompleter(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	out, err := c.Complete(context.Background(), "p", domain.GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, "\n\n  padded answer  \n", out)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewCompleter(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	_, err := c.Complete(context.Background(), "p", domain.GenerateOptions{})

	assert.ErrorContains(t, err, "no choices")
}

func TestComplete_PropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"This model's maximum context length is 4097 tokens","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewCompleter(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	_, err := c.Complete(context.Background(), "p", domain.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum context length")
}

func TestWireTemperature(t *testing.T) {
	assert.Greater(t, wireTemperature(0), float32(0))
	assert.Less(t, wireTemperature(0), float32(1e-30))
	assert.Equal(t, float32(0.7), wireTemperature(0.7))
}
