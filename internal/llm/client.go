package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Veraticus/financeai/internal/common"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single chat completion. Zero Temperature or MaxTokens fall
// back to the client's configured defaults.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Config selects and tunes a provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// ErrEmptyResponse is returned when a provider answers without any content.
var ErrEmptyResponse = errors.New("no completion content returned")

// APIError is a non-200 answer from a provider.
type APIError struct {
	Provider   string
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// classifyStatus wraps an API error so common.WithRetry retries rate limits
// and server errors but gives up immediately on client errors.
func classifyStatus(provider string, status int, body []byte) error {
	apiErr := &APIError{Provider: provider, StatusCode: status, Body: string(body)}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, apiErr)
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{Err: apiErr, Retryable: true}
	default:
		return &common.RetryableError{Err: apiErr, Retryable: false}
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
