package pinecone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"

	"docqa/internal/domain"
	"docqa/internal/vectorstore"
)

// Config identifies the index to query.
type Config struct {
	APIKey      string
	Environment string
	Index       string
	// Host skips the describe-index lookup when set.
	Host      string
	Namespace string
	TextKey   string
}

type querier interface {
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	Close() error
}

// Storage queries a Pinecone index. The connection is opened on the first
// search, so missing credentials surface at that call.
type Storage struct {
	cfg     Config
	connect func(ctx context.Context, cfg Config) (querier, error)
	conn    querier
}

// NewStorage returns an unconnected store for cfg.
func NewStorage(cfg Config) *Storage {
	if cfg.TextKey == "" {
		cfg.TextKey = "text"
	}
	return &Storage{cfg: cfg, connect: dial}
}

// Search returns up to topK matches ordered by descending score.
func (s *Storage) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if s.conn == nil {
		conn, err := s.connect(ctx, s.cfg)
		if err != nil {
			return nil, err
		}
		s.conn = conn
	}
	resp, err := s.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}
	results := make([]domain.SearchResult, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		var payload map[string]any
		if m.Vector.Metadata != nil {
			payload = m.Vector.Metadata.AsMap()
		}
		chunk := vectorstore.ChunkFromPayload(m.Vector.Id, payload, s.cfg.TextKey)
		results = append(results, domain.SearchResult{Chunk: chunk, Score: float64(m.Score)})
	}
	return results, nil
}

// Close releases the index connection if one was opened.
func (s *Storage) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func dial(ctx context.Context, cfg Config) (querier, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("pinecone client: %w", err)
	}
	host := cfg.Host
	if host == "" {
		if cfg.Index == "" {
			return nil, errors.New("pinecone: no index name or host configured")
		}
		idx, err := pc.DescribeIndex(ctx, cfg.Index)
		if err != nil {
			return nil, fmt.Errorf("pinecone describe index %q: %w", cfg.Index, err)
		}
		host = idx.Host
		if msg := environmentMismatch(idx, cfg.Environment); msg != "" {
			slog.Warn(msg, "index", cfg.Index)
		}
	}
	slog.Debug("connecting to pinecone index", "host", host, "namespace", cfg.Namespace)
	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: host, Namespace: cfg.Namespace})
	if err != nil {
		return nil, fmt.Errorf("pinecone index connection: %w", err)
	}
	return conn, nil
}

// environmentMismatch compares the configured environment with where the
// index actually lives and returns a warning, or "" when they agree or the
// environment is unset. Legacy environments carry a cloud suffix
// ("us-east-1-aws"), so a serverless region matches as a prefix.
func environmentMismatch(idx *pinecone.Index, env string) string {
	if env == "" || idx == nil || idx.Spec == nil {
		return ""
	}
	switch {
	case idx.Spec.Pod != nil && idx.Spec.Pod.Environment != env:
		return fmt.Sprintf("pinecone index lives in environment %q, configured %q", idx.Spec.Pod.Environment, env)
	case idx.Spec.Serverless != nil && !strings.HasPrefix(env, idx.Spec.Serverless.Region):
		return fmt.Sprintf("pinecone serverless index lives in region %q, configured %q", idx.Spec.Serverless.Region, env)
	}
	return ""
}
