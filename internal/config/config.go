package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LOCALGUIDE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// LOCALGUIDE_GUIDE_FILE -> guide_file, etc.
	if err := k.Load(env.Provider("LOCALGUIDE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LOCALGUIDE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderNone:   true,
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// validRules is the closed set of behavior rule identifiers.
var validRules = map[string]bool{
	"explain_slang_when_used":          true,
	"warn_about_traffic_realistically": true,
	"suggest_metro_during_peaks":       true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.GuideFile == "" {
		return fmt.Errorf("guide_file is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be openai, ollama, or empty", c.Provider)
	}
	if c.Provider != ProviderNone && c.Model == "" {
		return fmt.Errorf("model is required when a provider is set")
	}
	if !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}
	for _, rule := range c.BehaviorRules {
		if !validRules[rule] {
			return fmt.Errorf("unknown behavior rule %q", rule)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535")
	}
	if c.GenerateTimeoutS < 0 {
		return fmt.Errorf("generate_timeout_seconds must be non-negative")
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return ""
}
