package llm

import (
	"fmt"
	"strings"
)

// Provider names accepted by NewClient.
const (
	ProviderXAI       = "xai"
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// DefaultProvider is used when llm.provider is unset.
const DefaultProvider = ProviderXAI

var compatibleProviders = map[string]compatDefaults{
	ProviderOpenAI: {name: "OpenAI", baseURL: "https://api.openai.com/v1", model: "gpt-4o-mini"},
	ProviderXAI:    {name: "xAI", baseURL: "https://api.x.ai/v1", model: "grok-2-latest"},
	ProviderGroq:   {name: "Groq", baseURL: "https://api.groq.com/openai/v1", model: "llama-3.3-70b-versatile"},
}

// NewClient creates a raw LLM client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = DefaultProvider
	}

	if defaults, ok := compatibleProviders[provider]; ok {
		client, err := newOpenAIClient(cfg, defaults)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	if provider == ProviderAnthropic {
		client, err := newAnthropicClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
}

// APIKeyEnv names the environment variable that conventionally holds the
// provider's key.
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "XAI_API_KEY"
	}
}
