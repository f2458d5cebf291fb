package config

// ProviderType identifies a generation or embedding provider.
type ProviderType string

const (
	ProviderNone   ProviderType = ""
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level guide configuration, corresponding to
// .localguide.yml.
type Config struct {
	// GuideFile is the knowledge document every answer is grounded in.
	GuideFile string `yaml:"guide_file" koanf:"guide_file"`

	// AgentName and Persona shape the voice of generated responses.
	AgentName string `yaml:"agent_name" koanf:"agent_name"`
	Persona   string `yaml:"persona" koanf:"persona"`

	// BehaviorRules is the ordered list of enabled rule identifiers.
	BehaviorRules []string `yaml:"behavior_rules" koanf:"behavior_rules"`

	// HeadingKeywords overrides the section classification table.
	HeadingKeywords *HeadingKeywordsConfig `yaml:"heading_keywords" koanf:"heading_keywords"`

	// Provider enables the optional generation layer. Empty disables it
	// and keeps responses fully deterministic.
	Provider         ProviderType `yaml:"provider" koanf:"provider"`
	Model            string       `yaml:"model" koanf:"model"`
	OllamaURL        string       `yaml:"ollama_url" koanf:"ollama_url"`
	GenerateTimeoutS int          `yaml:"generate_timeout_seconds" koanf:"generate_timeout_seconds"`

	// EmbeddingProvider enables the semantic fallback index.
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	// DataDir holds the session history database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	// Server settings.
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Watch    bool `yaml:"watch" koanf:"watch"`
}

// HeadingKeywordsConfig mirrors the knowledge package's keyword table in
// YAML form.
type HeadingKeywordsConfig struct {
	Slang   []string `yaml:"slang" koanf:"slang"`
	Traffic []string `yaml:"traffic" koanf:"traffic"`
	Food    []string `yaml:"food" koanf:"food"`
}
