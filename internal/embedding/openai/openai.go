package openai

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel matches the embeddings the index was built with.
const DefaultModel = string(goopenai.AdaEmbeddingV2)

// Client is an OpenAI embeddings client implementing the Embedder interface.
type Client struct {
	client *goopenai.Client
	model  goopenai.EmbeddingModel
}

// Config configures the OpenAI embeddings client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewClient creates a new embeddings client. An empty API key is accepted;
// the API rejects it on the first call.
func NewClient(cfg Config) *Client {
	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{
		client: goopenai.NewClientWithConfig(oc),
		model:  goopenai.EmbeddingModel(cfg.Model),
	}
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai embeddings: no embedding returned")
	}
	v := resp.Data[0].Embedding
	if len(v) == 0 {
		return nil, errors.New("openai embeddings: empty embedding")
	}
	return v, nil
}
