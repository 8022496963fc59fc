// Package app assembles the long-lived clients once at startup and hands
// them to the front-ends.
package app

import (
	"context"
	"fmt"
	"time"

	"docqa/internal/config"
	"docqa/internal/domain"
	embgemini "docqa/internal/embedding/gemini"
	embopenai "docqa/internal/embedding/openai"
	"docqa/internal/genaiutil"
	llmgemini "docqa/internal/llm/gemini"
	llmopenai "docqa/internal/llm/openai"
	"docqa/internal/prompt"
	"docqa/internal/service"
	"docqa/internal/vectorstore/pgvector"
	"docqa/internal/vectorstore/pinecone"
	"docqa/internal/vectorstore/qdrant"
)

// App holds the clients shared by every query of a session.
type App struct {
	Embedder  domain.Embedder
	Store     domain.VectorStore
	Completer domain.Completer
	Pipeline  *service.RAGServiceImpl
}

// New constructs the embedder, vector store, completer and pipeline from
// cfg. Credentials are not checked here; a bad key fails at the first call.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	emb, llm, err := newProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	store, err := newStore(ctx, cfg.VectorStore, cfg.Retriever.TextKey)
	if err != nil {
		return nil, err
	}
	tmpl, err := prompt.Load(cfg.Prompt.TemplateFile)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load prompt template: %w", err)
	}
	pipeline := service.NewRAGService(emb, store, llm, tmpl, service.Options{
		TopK:      cfg.Retriever.TopK,
		Separator: cfg.Retriever.Separator,
		MaxTokens: cfg.Provider.MaxTokens,
	})
	return &App{Embedder: emb, Store: store, Completer: llm, Pipeline: pipeline}, nil
}

// Close releases the vector store.
func (a *App) Close() error {
	return a.Store.Close()
}

func newProvider(cfg config.ProviderConfig) (domain.Embedder, domain.Completer, error) {
	switch cfg.Type {
	case "openai", "":
		oc := cfg.OpenAI
		if oc == nil {
			oc = &config.OpenAIConfig{}
		}
		emb := embopenai.NewClient(embopenai.Config{APIKey: oc.APIKey, BaseURL: oc.BaseURL, Model: oc.EmbeddingModel})
		llm := llmopenai.NewCompleter(llmopenai.Config{APIKey: oc.APIKey, BaseURL: oc.BaseURL, Model: oc.CompletionModel})
		return emb, llm, nil
	case "gemini":
		gc := cfg.Gemini
		if gc == nil {
			return nil, nil, fmt.Errorf("gemini provider config missing")
		}
		lazy := genaiutil.NewLazyClient(genaiutil.KeyFromEnv(gc.APIKeyEnv))
		return embgemini.NewClient(lazy, gc.EmbeddingModel), llmgemini.NewCompleter(lazy, gc.CompletionModel), nil
	default:
		return nil, nil, fmt.Errorf("unknown provider: %s", cfg.Type)
	}
}

func newStore(ctx context.Context, cfg config.VectorStoreConfig, textKey string) (domain.VectorStore, error) {
	switch cfg.Type {
	case "pinecone", "":
		pc := cfg.Pinecone
		if pc == nil {
			pc = &config.PineconeConfig{}
		}
		return pinecone.NewStorage(pinecone.Config{
			APIKey:      pc.APIKey,
			Environment: pc.Environment,
			Index:       pc.Index,
			Host:        pc.Host,
			Namespace:   pc.Namespace,
			TextKey:     textKey,
		}), nil
	case "qdrant":
		qc := cfg.Qdrant
		if qc == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        qc.URL,
			APIKey:     qc.APIKey,
			Collection: qc.Collection,
			TextKey:    textKey,
			Timeout:    time.Duration(qc.TimeoutSecs) * time.Second,
		}), nil
	case "pgvector":
		pg := cfg.Pgvector
		if pg == nil {
			return nil, fmt.Errorf("pgvector config missing")
		}
		return pgvector.NewStorage(ctx, pgvector.Config{DatabaseURL: pg.DatabaseURL, Table: pg.Table, TextKey: textKey})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}
