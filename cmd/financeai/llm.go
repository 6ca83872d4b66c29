package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/financeai/internal/common"
	"github.com/Veraticus/financeai/internal/llm"
	"github.com/spf13/viper"
)

// createLLMAdvisor builds the AI advisor from the llm.* settings. It returns an
// error wrapping common.ErrMissingConfig when no API key is available.
func createLLMAdvisor() (*llm.Advisor, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = llm.DefaultProvider
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}

	// Check viper first, then the provider's conventional variable
	cfg.APIKey = viper.GetString("llm.api_key")
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(llm.APIKeyEnv(provider))
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s API key not found in llm.api_key or %s",
			common.ErrMissingConfig, provider, llm.APIKeyEnv(provider))
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return llm.NewAdvisor(client, cfg, slog.Default()), nil
}
