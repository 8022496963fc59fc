// Package genaiutil builds Gemini API clients lazily so a missing key fails at
// the first call instead of at startup.
package genaiutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"google.golang.org/genai"
)

// LazyClient constructs a *genai.Client on first use.
type LazyClient struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

// KeyFromEnv returns the value of keyEnv, falling back to GOOGLE_API_KEY.
func KeyFromEnv(keyEnv string) string {
	if v := os.Getenv(keyEnv); v != "" {
		return v
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// NewLazyClient stores apiKey for the first Get.
func NewLazyClient(apiKey string) *LazyClient {
	return &LazyClient{apiKey: apiKey}
}

// Get returns the shared client, creating it on the first call.
func (l *LazyClient) Get(ctx context.Context) (*genai.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  l.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	l.client = c
	return c, nil
}
