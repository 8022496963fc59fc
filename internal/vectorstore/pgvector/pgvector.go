package pgvector

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"docqa/internal/domain"
)

// Config points at a table with id, content, metadata (jsonb) and
// embedding (vector) columns.
type Config struct {
	DatabaseURL string
	Table       string
	TextKey     string
}

// Storage runs cosine-distance searches against Postgres with pgvector.
type Storage struct {
	cfg  Config
	pool *pgxpool.Pool
}

// NewStorage parses the connection string and creates a pool. Connections
// are established lazily by pgx on first use.
func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Table == "" {
		cfg.Table = "chunks"
	}
	if cfg.TextKey == "" {
		cfg.TextKey = "text"
	}
	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Storage{cfg: cfg, pool: pool}, nil
}

// Search returns the topK nearest rows by cosine distance.
func (s *Storage) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	rows, err := s.pool.Query(ctx, searchQuery(s.cfg.Table), pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector search: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var (
			id       string
			content  string
			metadata map[string]any
			score    float64
		)
		if err := rows.Scan(&id, &content, &metadata, &score); err != nil {
			return nil, err
		}
		if metadata == nil {
			metadata = map[string]any{}
		}
		results = append(results, domain.SearchResult{
			Chunk: domain.Chunk{ID: id, Text: content, Metadata: metadata},
			Score: score,
		})
	}
	return results, rows.Err()
}

// Close releases the pool.
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func searchQuery(table string) string {
	ident := pgx.Identifier{table}.Sanitize()
	return fmt.Sprintf(`
		SELECT id::text, content, metadata, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, ident)
}
