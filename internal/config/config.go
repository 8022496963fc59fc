package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds model settings for the OpenAI provider.
type OpenAIConfig struct {
	BaseURL         string `yaml:"base_url,omitempty"`
	EmbeddingModel  string `yaml:"embedding_model"`
	CompletionModel string `yaml:"completion_model"`
	APIKey          string `yaml:"-"`
}

// GeminiConfig holds model settings for the Gemini provider.
type GeminiConfig struct {
	EmbeddingModel  string `yaml:"embedding_model"`
	CompletionModel string `yaml:"completion_model"`
	APIKeyEnv       string `yaml:"api_key_env"`
}

// ProviderConfig selects the embedding and completion provider.
type ProviderConfig struct {
	Type      string        `yaml:"type"`
	MaxTokens int           `yaml:"max_tokens"`
	OpenAI    *OpenAIConfig `yaml:"openai,omitempty"`
	Gemini    *GeminiConfig `yaml:"gemini,omitempty"`
}

// PineconeConfig contains connection details for a Pinecone index.
type PineconeConfig struct {
	Host        string `yaml:"host,omitempty"`
	Namespace   string `yaml:"namespace,omitempty"`
	APIKey      string `yaml:"-"`
	Environment string `yaml:"-"`
	Index       string `yaml:"-"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PgvectorConfig points at a Postgres table holding chunk embeddings.
type PgvectorConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Table       string `yaml:"table"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type     string          `yaml:"type"`
	Pinecone *PineconeConfig `yaml:"pinecone,omitempty"`
	Qdrant   *QdrantConfig   `yaml:"qdrant,omitempty"`
	Pgvector *PgvectorConfig `yaml:"pgvector,omitempty"`
}

// RetrieverConfig controls how many chunks are fetched and how they are read.
type RetrieverConfig struct {
	TopK      int    `yaml:"top_k"`
	TextKey   string `yaml:"text_key"`
	Separator string `yaml:"separator"`
}

// PromptConfig optionally replaces the built-in prompt template.
type PromptConfig struct {
	TemplateFile string `yaml:"template_file,omitempty"`
}

// UIConfig selects the front-end.
type UIConfig struct {
	Mode     string `yaml:"mode"`
	WordWrap int    `yaml:"word_wrap"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Verbose bool   `yaml:"verbose"`
	File    string `yaml:"file,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Provider    ProviderConfig    `yaml:"provider"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retriever   RetrieverConfig   `yaml:"retriever"`
	Prompt      PromptConfig      `yaml:"prompt"`
	UI          UIConfig          `yaml:"ui"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./docqa.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it returns the built-in defaults and an empty path.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "docqa.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return Default(), "", nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultUserConfigPath returns ~/.config/docqa/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

// LoadDotEnv loads ./.env into the process environment if present.
// Variables already set in the environment are left untouched.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{
		Provider:    ProviderConfig{Type: "openai"},
		VectorStore: VectorStoreConfig{Type: "pinecone"},
		UI:          UIConfig{Mode: "auto"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = "openai"
	}
	if cfg.Provider.MaxTokens == 0 {
		cfg.Provider.MaxTokens = 256
	}
	switch cfg.Provider.Type {
	case "openai":
		if cfg.Provider.OpenAI == nil {
			cfg.Provider.OpenAI = &OpenAIConfig{}
		}
		if cfg.Provider.OpenAI.EmbeddingModel == "" {
			cfg.Provider.OpenAI.EmbeddingModel = "text-embedding-ada-002"
		}
		if cfg.Provider.OpenAI.CompletionModel == "" {
			cfg.Provider.OpenAI.CompletionModel = "gpt-3.5-turbo-instruct"
		}
	case "gemini":
		if cfg.Provider.Gemini == nil {
			cfg.Provider.Gemini = &GeminiConfig{}
		}
		if cfg.Provider.Gemini.EmbeddingModel == "" {
			cfg.Provider.Gemini.EmbeddingModel = "text-embedding-004"
		}
		if cfg.Provider.Gemini.CompletionModel == "" {
			cfg.Provider.Gemini.CompletionModel = "gemini-2.5-flash"
		}
		if cfg.Provider.Gemini.APIKeyEnv == "" {
			cfg.Provider.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "pinecone"
	}
	switch cfg.VectorStore.Type {
	case "pinecone":
		if cfg.VectorStore.Pinecone == nil {
			cfg.VectorStore.Pinecone = &PineconeConfig{}
		}
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
	case "pgvector":
		if cfg.VectorStore.Pgvector == nil {
			cfg.VectorStore.Pgvector = &PgvectorConfig{}
		}
		if cfg.VectorStore.Pgvector.Table == "" {
			cfg.VectorStore.Pgvector.Table = "chunks"
		}
	}

	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 4
	}
	if cfg.Retriever.TextKey == "" {
		cfg.Retriever.TextKey = "text"
	}
	if cfg.Retriever.Separator == "" {
		cfg.Retriever.Separator = "\n\n"
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = "auto"
	}
	if cfg.UI.WordWrap == 0 {
		cfg.UI.WordWrap = 100
	}
}
