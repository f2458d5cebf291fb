package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SRINIVASINDIA/Local-guide/internal/config"
	"github.com/SRINIVASINDIA/Local-guide/internal/embeddings"
	"github.com/SRINIVASINDIA/Local-guide/internal/engine"
	"github.com/SRINIVASINDIA/Local-guide/internal/history"
	"github.com/SRINIVASINDIA/Local-guide/internal/llm"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `localguide init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createProviderFromConfig creates an LLM provider for response
// polishing, or nil when no provider is configured.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for provider openai")
		}
		return llm.NewOpenAIProvider(apiKey, cfg.Model), nil
	case config.ProviderOllama:
		return llm.NewOllamaProvider(cfg.OllamaURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// createEmbedderFromConfig creates an embedder for the semantic
// fallback index, or nil when none is configured.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// openHistory opens the session history store under cfg.DataDir. A nil
// store disables persistence; failures here are fatal because the user
// explicitly configured a data dir.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if cfg.DataDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
	}
	db, err := history.Open(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	return history.NewStore(db), nil
}

// buildEngine assembles an engine from the config: guide loader,
// behavior rules, optional generation and embedding providers, and the
// history store.
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	provider, err := createProviderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	hist, err := openHistory(cfg)
	if err != nil {
		return nil, err
	}

	opts := engine.Options{
		Loader: func() (string, error) {
			data, err := os.ReadFile(cfg.GuideFile)
			if err != nil {
				return "", fmt.Errorf("reading guide %s: %w", cfg.GuideFile, err)
			}
			return string(data), nil
		},
		Rules:           cfg.Rules(),
		Keywords:        cfg.Keywords(),
		Persona:         cfg.Persona,
		Generator:       provider,
		GeneratorModel:  cfg.Model,
		GenerateTimeout: time.Duration(cfg.GenerateTimeoutS) * time.Second,
		Embedder:        embedder,
		History:         hist,
	}

	eng, err := engine.New(opts)
	if err != nil {
		return nil, fmt.Errorf("starting engine: %w", err)
	}
	return eng, nil
}
