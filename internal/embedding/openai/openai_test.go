package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbed_SendsQueryAndReturnsVector(t *testing.T) {
	var got struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}
	var auth string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2]}],"model":"text-embedding-ada-002"}`))
	})

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	vec, err := c.Embed(context.Background(), "What connectors does Airbyte support?")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2}, vec)
	assert.Equal(t, []string{"What connectors does Airbyte support?"}, got.Input)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, "Bearer sk-test", auth)
}

func TestEmbed_PropagatesAPIError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	c := NewClient(Config{BaseURL: srv.URL + "/v1"})
	_, err := c.Embed(context.Background(), "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestEmbed_EmptyData(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL + "/v1", Model: "text-embedding-3-small"})
	_, err := c.Embed(context.Background(), "q")

	assert.ErrorContains(t, err, "no embedding returned")
}

func TestEmbed_NoRetryOnServerError(t *testing.T) {
	calls := 0
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	_, err := c.Embed(context.Background(), "q")

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
