package service

import (
	"context"
	"log/slog"

	"docqa/internal/domain"
	"docqa/internal/prompt"
)

// Options holds the retrieval and generation knobs of the pipeline.
type Options struct {
	TopK      int
	Separator string
	MaxTokens int
}

// Sampling fixed for every completion: greedy decoding.
const temperature = 0

// Result is one answered query with the chunks that backed it.
type Result struct {
	Answer  string
	Prompt  string
	Sources []domain.SearchResult
}

// RAGServiceImpl embeds a query, retrieves context, and asks the completer.
type RAGServiceImpl struct {
	embedder  domain.Embedder
	store     domain.VectorStore
	completer domain.Completer
	template  *prompt.Template
	opts      Options
}

var _ domain.Answerer = (*RAGServiceImpl)(nil)

// NewRAGService wires the pipeline. A nil template uses prompt.Default.
func NewRAGService(embedder domain.Embedder, store domain.VectorStore, completer domain.Completer, template *prompt.Template, opts Options) *RAGServiceImpl {
	if template == nil {
		template = prompt.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.Separator == "" {
		opts.Separator = "\n\n"
	}
	return &RAGServiceImpl{embedder: embedder, store: store, completer: completer, template: template, opts: opts}
}

// Answer returns the completer's text for query verbatim.
func (s *RAGServiceImpl) Answer(ctx context.Context, query string) (string, error) {
	res, err := s.Ask(ctx, query)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

// Ask runs the pipeline and also returns the rendered prompt and sources.
// Errors from the embedder, the store, or the completer are returned as is.
// An empty retrieval still goes to the completer with an empty context.
func (s *RAGServiceImpl) Ask(ctx context.Context, query string) (*Result, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	slog.Debug("embedded query", "embedder", s.embedder.Name(), "dim", len(vec))

	results, err := s.store.Search(ctx, vec, s.opts.TopK)
	if err != nil {
		return nil, err
	}
	slog.Debug("retrieved context", "top_k", s.opts.TopK, "results", len(results))
	for i, r := range results {
		slog.Debug("source", "rank", i+1, "score", r.Score, "url", r.Chunk.URL())
	}

	contextText := prompt.JoinContext(results, s.opts.Separator)
	rendered := s.template.Render(contextText, query)

	answer, err := s.completer.Complete(ctx, rendered, domain.GenerateOptions{
		Temperature: temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("completed", "completer", s.completer.Name(), "prompt_len", len(rendered), "answer_len", len(answer))

	return &Result{Answer: answer, Prompt: rendered, Sources: results}, nil
}
