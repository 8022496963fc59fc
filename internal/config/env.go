package config

import "os"

// Environment variable names read at startup.
const (
	EnvOpenAIAPIKey        = "OPENAI_API_KEY"
	EnvPineconeAPIKey      = "PINECONE_KEY"
	EnvPineconeEnvironment = "PINECONE_ENVIRONMENT"
	EnvPineconeIndex       = "PINECONE_INDEX"
)

// Env holds the credentials and index coordinates taken from the process
// environment. Values are passed through as-is; a missing variable is an
// empty string and only fails once the dependent client makes its first call.
type Env struct {
	OpenAIAPIKey        string
	PineconeAPIKey      string
	PineconeEnvironment string
	PineconeIndex       string
}

// LoadEnv reads the four environment values.
func LoadEnv() Env {
	return Env{
		OpenAIAPIKey:        os.Getenv(EnvOpenAIAPIKey),
		PineconeAPIKey:      os.Getenv(EnvPineconeAPIKey),
		PineconeEnvironment: os.Getenv(EnvPineconeEnvironment),
		PineconeIndex:       os.Getenv(EnvPineconeIndex),
	}
}

// Apply copies the environment values onto cfg. The sections are created
// when absent so a config file that selects another provider or store still
// carries the credentials.
func Apply(cfg *AppConfig, env Env) {
	if cfg.Provider.OpenAI == nil {
		cfg.Provider.OpenAI = &OpenAIConfig{}
	}
	cfg.Provider.OpenAI.APIKey = env.OpenAIAPIKey

	if cfg.VectorStore.Pinecone == nil {
		cfg.VectorStore.Pinecone = &PineconeConfig{}
	}
	p := cfg.VectorStore.Pinecone
	p.APIKey = env.PineconeAPIKey
	p.Environment = env.PineconeEnvironment
	p.Index = env.PineconeIndex
}
