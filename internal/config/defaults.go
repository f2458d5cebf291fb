package config

// DefaultConfigFile is the conventional config file name.
const DefaultConfigFile = ".localguide.yml"

// DefaultBehaviorRules lists every behavior rule, enabled, in
// application order. The identifiers match the compose package.
var DefaultBehaviorRules = []string{
	"explain_slang_when_used",
	"warn_about_traffic_realistically",
	"suggest_metro_during_peaks",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GuideFile:        "guide.md",
		AgentName:        "local-guide",
		Persona:          "You are a friendly, practical local guide who keeps answers short and honest.",
		BehaviorRules:    DefaultBehaviorRules,
		Provider:         ProviderNone,
		OllamaURL:        "http://localhost:11434",
		GenerateTimeoutS: 10,
		DataDir:          ".localguide",
		Port:             8600,
		Watch:            true,
	}
}
