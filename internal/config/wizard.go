package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .localguide.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to localguide! Let's configure your guide.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Guide document.
	guidePrompt := promptui.Prompt{
		Label:   "Guide document (markdown)",
		Default: cfg.GuideFile,
	}
	guideFile, err := guidePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("guide file: %w", err)
	}
	if _, err := os.Stat(guideFile); os.IsNotExist(err) {
		fmt.Printf("Note: %s does not exist yet; the engine will fail to start until it does.\n", guideFile)
	}

	// 2. Agent name.
	namePrompt := promptui.Prompt{
		Label:   "Agent name",
		Default: cfg.AgentName,
	}
	agentName, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("agent name: %w", err)
	}

	// 3. Optional LLM provider for polishing responses.
	providerPrompt := promptui.Select{
		Label: "LLM provider for response polishing (answers stay template-grounded either way)",
		Items: []string{"none", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderNone
	if providerStr != "none" {
		provider = ProviderType(providerStr)
	}

	model := ""
	if provider != ProviderNone {
		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: defaultModelFor(provider),
		}
		model, err = modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
	}

	// 4. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port for serve mode",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg.GuideFile = guideFile
	cfg.AgentName = agentName
	cfg.Provider = provider
	cfg.Model = model
	cfg.Port = port

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", DefaultConfigFile)
	fmt.Println("Run `localguide ask \"what does macha mean\"` to try it out.")
	return cfg, nil
}

func defaultModelFor(p ProviderType) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "llama3.1"
	default:
		return ""
	}
}
