package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"docqa/internal/genaiutil"
)

// DefaultModel is the Gemini text embedding model.
const DefaultModel = "text-embedding-004"

// Client embeds text with the Gemini API.
type Client struct {
	lazy  *genaiutil.LazyClient
	model string
}

// NewClient returns an embedder sharing lazy for its API connection.
func NewClient(lazy *genaiutil.LazyClient, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{lazy: lazy, model: model}
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "gemini" }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := c.lazy.Get(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.EmbedContent(ctx, c.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini embed: no embedding returned")
	}
	return resp.Embeddings[0].Values, nil
}
