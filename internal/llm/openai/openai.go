package openai

import (
	"context"
	"errors"
	"fmt"
	"math"

	goopenai "github.com/sashabaranov/go-openai"

	"docqa/internal/domain"
)

// DefaultModel is the instruction-following completions model.
const DefaultModel = goopenai.GPT3Dot5TurboInstruct

// Completer calls the OpenAI completions endpoint.
type Completer struct {
	client *goopenai.Client
	model  string
}

var _ domain.Completer = (*Completer)(nil)

// Config configures the OpenAI completer.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewCompleter creates a completer. An empty API key is accepted; the API
// rejects it on the first call.
func NewCompleter(cfg Config) *Completer {
	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Completer{client: goopenai.NewClientWithConfig(oc), model: cfg.Model}
}

// Name returns the provider identifier.
func (c *Completer) Name() string { return "openai" }

// Complete returns the first choice's text verbatim.
func (c *Completer) Complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	resp, err := c.client.CreateCompletion(ctx, goopenai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: wireTemperature(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: no choices returned")
	}
	return resp.Choices[0].Text, nil
}

// wireTemperature keeps a zero temperature on the wire. The request field is
// omitempty, and an omitted temperature means 1 to the API.
func wireTemperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
