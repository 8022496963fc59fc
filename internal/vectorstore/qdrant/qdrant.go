package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docqa/internal/domain"
	"docqa/internal/vectorstore"
)

// Storage is a minimal read-only REST client to a Qdrant collection.
type Storage struct {
	url        string
	apiKey     string
	collection string
	textKey    string
	client     *http.Client
}

// Config configures the Qdrant connection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	TextKey    string
	Timeout    time.Duration
}

// NewStorage returns a client for cfg.Collection. A zero Timeout leaves
// request latency to the server.
func NewStorage(cfg Config) *Storage {
	textKey := cfg.TextKey
	if textKey == "" {
		textKey = "text"
	}
	return &Storage{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		textKey:    textKey,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Search returns the topK points closest to vector with their payloads.
func (s *Storage) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	endpoint := fmt.Sprintf("%s/collections/%s/points/search", s.url, url.PathEscape(s.collection))
	if err := s.postJSON(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := vectorstore.ChunkFromPayload(fmt.Sprint(r.ID), r.Payload, s.textKey)
		results = append(results, domain.SearchResult{Chunk: chunk, Score: r.Score})
	}
	return results, nil
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (s *Storage) Close() error { return nil }

func (s *Storage) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		dec := json.NewDecoder(resp.Body)
		return dec.Decode(out)
	}
	return nil
}
