package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SRINIVASINDIA/Local-guide/internal/compose"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".localguide.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	// A missing file yields pure defaults, not an error.
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GuideFile != "guide.md" {
		t.Errorf("GuideFile = %q, want guide.md", cfg.GuideFile)
	}
	if cfg.Port != 8600 {
		t.Errorf("Port = %d, want 8600", cfg.Port)
	}
	if cfg.Provider != ProviderNone {
		t.Errorf("Provider = %q, want none", cfg.Provider)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
guide_file: bangalore.md
agent_name: namma-guide
provider: ollama
model: llama3.1
port: 9000
behavior_rules:
  - explain_slang_when_used
heading_keywords:
  slang: [slang, lingo]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GuideFile != "bangalore.md" {
		t.Errorf("GuideFile = %q", cfg.GuideFile)
	}
	if cfg.Provider != ProviderOllama || cfg.Model != "llama3.1" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if len(cfg.BehaviorRules) != 1 {
		t.Errorf("BehaviorRules = %v", cfg.BehaviorRules)
	}
	if cfg.HeadingKeywords == nil || len(cfg.HeadingKeywords.Slang) != 2 {
		t.Errorf("HeadingKeywords = %+v", cfg.HeadingKeywords)
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "guide_file: from-file.md\n")
	t.Setenv("LOCALGUIDE_GUIDE_FILE", "from-env.md")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GuideFile != "from-env.md" {
		t.Errorf("GuideFile = %q, want the env override", cfg.GuideFile)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".localguide.yml")

	cfg := DefaultConfig()
	cfg.GuideFile = "city.md"
	cfg.Provider = ProviderOpenAI
	cfg.Model = "gpt-4o-mini"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.GuideFile != "city.md" || loaded.Provider != ProviderOpenAI || loaded.Model != "gpt-4o-mini" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing guide", func(c *Config) { c.GuideFile = "" }, true},
		{"bad provider", func(c *Config) { c.Provider = "cohere" }, true},
		{"provider without model", func(c *Config) { c.Provider = ProviderOpenAI }, true},
		{"provider with model", func(c *Config) { c.Provider = ProviderOpenAI; c.Model = "gpt-4o-mini" }, false},
		{"unknown rule", func(c *Config) { c.BehaviorRules = []string{"always_guess"} }, true},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
		{"negative timeout", func(c *Config) { c.GenerateTimeoutS = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRulesConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BehaviorRules = nil
	if got := cfg.Rules(); len(got) != len(compose.DefaultRules()) {
		t.Errorf("empty rule list should mean all rules, got %v", got)
	}

	cfg.BehaviorRules = []string{"suggest_metro_during_peaks"}
	got := cfg.Rules()
	if len(got) != 1 || got[0] != compose.RuleSuggestMetro {
		t.Errorf("Rules() = %v", got)
	}
}

func TestKeywordsConversion(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Keywords() != nil {
		t.Error("nil heading keywords should convert to nil")
	}

	cfg.HeadingKeywords = &HeadingKeywordsConfig{Slang: []string{"lingo"}}
	kw := cfg.Keywords()
	if kw == nil || len(kw.Slang) != 1 || kw.Slang[0] != "lingo" {
		t.Errorf("Keywords() = %+v", kw)
	}
}
