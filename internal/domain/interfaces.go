package domain

import "context"

// Chunk is a piece of indexed text returned by the vector index.
type Chunk struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// URL returns the chunk's source URL when the index stored one.
func (c Chunk) URL() string {
	for _, key := range []string{"url", "source", "source_url"} {
		if v, ok := c.Metadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// GenerateOptions controls sampling for a single completion call.
type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore searches a remote index for chunks similar to a vector.
// Results are ordered by descending score.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	Close() error
}

// Completer sends a prompt to a language model and returns the generated text.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Answerer defines the operation exposed by the application core.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}
