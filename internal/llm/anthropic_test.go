package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicClient_Complete(t *testing.T) {
	var got anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Cut "},{"type":"text","text":"dining out."}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), Request{System: "sys", Prompt: "help", MaxTokens: 300})
	require.NoError(t, err)
	assert.Equal(t, "Cut dining out.", text)

	assert.Equal(t, "sys", got.System)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "help", got.Messages[0].Content)
}

func TestAnthropicClient_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid x-api-key"}`))
		}))
		defer server.Close()

		client, err := NewClient(Config{Provider: "anthropic", APIKey: "bad", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), Request{Prompt: "hi"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("empty content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer server.Close()

		client, err := NewClient(Config{Provider: "anthropic", APIKey: "k", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), Request{Prompt: "hi"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}
