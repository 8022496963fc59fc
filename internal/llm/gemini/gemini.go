package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"docqa/internal/domain"
	"docqa/internal/genaiutil"
)

// DefaultModel is the Gemini model used for answers.
const DefaultModel = "gemini-2.5-flash"

// Completer generates answers with the Gemini API.
type Completer struct {
	lazy  *genaiutil.LazyClient
	model string
}

var _ domain.Completer = (*Completer)(nil)

// NewCompleter returns a completer sharing lazy for its API connection.
func NewCompleter(lazy *genaiutil.LazyClient, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{lazy: lazy, model: model}
}

// Name returns the provider identifier.
func (c *Completer) Name() string { return "gemini" }

// Complete sends prompt as a single user turn.
func (c *Completer) Complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	client, err := c.lazy.Get(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), generateConfig(opts))
	if err != nil {
		return "", fmt.Errorf("gemini generateContent: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini generateContent: empty response")
	}
	return resp.Text(), nil
}

func generateConfig(opts domain.GenerateOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	return cfg
}
