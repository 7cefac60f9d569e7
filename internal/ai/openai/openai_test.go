package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
)

type capturedRequest struct {
	path   string
	auth   string
	custom string
	body   map[string]any
}

func newCompletionServer(t *testing.T, status int, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.custom = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&captured.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("should send one user message and return content", func(t *testing.T) {
		var captured capturedRequest
		server := newCompletionServer(t, http.StatusOK, "A short summary.", &captured)
		defer server.Close()

		g, err := NewGenerator(config.LLMConfig{
			BaseURL:   server.URL,
			APIKey:    "sk-test",
			Model:     "gpt-4o-mini",
			Username:  "matepr",
			MaxTokens: 256,
		}, 5*time.Second)
		require.NoError(t, err)

		out, err := g.Generate(context.Background(), "describe this")

		require.NoError(t, err)
		assert.Equal(t, "A short summary.", out)
		assert.Equal(t, "/chat/completions", captured.path)
		assert.Equal(t, "Bearer sk-test", captured.auth)
		assert.Equal(t, "gpt-4o-mini", captured.body["model"])
		assert.Equal(t, "matepr", captured.body["user"])
		messages, ok := captured.body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 1)
		assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	})

	t.Run("should log through the request logger", func(t *testing.T) {
		var captured capturedRequest
		server := newCompletionServer(t, http.StatusOK, "ok", &captured)
		defer server.Close()

		var buf bytes.Buffer
		base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ctx := logger.With(logger.WithLogger(context.Background(), base), "tool", "generate_pr_summary")

		g, err := NewGenerator(config.LLMConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, 5*time.Second)
		require.NoError(t, err)

		_, err = g.Generate(ctx, "hi")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "llm chat completed")
		assert.Contains(t, buf.String(), "tool=generate_pr_summary")
	})

	t.Run("should use custom auth header", func(t *testing.T) {
		var captured capturedRequest
		server := newCompletionServer(t, http.StatusOK, "ok", &captured)
		defer server.Close()

		g, err := NewGenerator(config.LLMConfig{
			BaseURL:    server.URL,
			APIKey:     "gateway-key",
			Model:      "gpt-4o-mini",
			AuthHeader: "X-Api-Key",
		}, 5*time.Second)
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), "hi")

		require.NoError(t, err)
		assert.Equal(t, "gateway-key", captured.custom)
	})

	t.Run("should wrap upstream failure", func(t *testing.T) {
		var captured capturedRequest
		server := newCompletionServer(t, http.StatusInternalServerError, "", &captured)
		defer server.Close()

		g, err := NewGenerator(config.LLMConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, 5*time.Second)
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), "hi")

		assert.ErrorIs(t, err, domainErrors.ErrAIGeneration)
	})

	t.Run("should reject empty content", func(t *testing.T) {
		var captured capturedRequest
		server := newCompletionServer(t, http.StatusOK, "", &captured)
		defer server.Close()

		g, err := NewGenerator(config.LLMConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, 5*time.Second)
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), "hi")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidAIOutput)
	})
}

func TestNewGenerator_RequiresCredentials(t *testing.T) {
	_, err := NewGenerator(config.LLMConfig{Model: "gpt-4o-mini"}, time.Second)

	assert.ErrorIs(t, err, domainErrors.ErrLLMNotConfigured)
	assert.True(t, domainErrors.IsConfiguration(err))
}
