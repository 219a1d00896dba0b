package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/infrastructure/config"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerConfig(baseURL string) *config.Config {
	return &config.Config{
		OpenRouter: config.OpenRouterConfig{
			APIKey:    "sk-test",
			Model:     "test-model",
			BaseURL:   baseURL,
			MaxTokens: 256,
			Timeout:   5 * time.Second,
		},
	}
}

func TestOpenRouterChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model     string               `json:"model"`
			Messages  []common.ChatMessage `json:"messages"`
			MaxTokens int                  `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 256, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, common.RoleUser, req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "Hello from the model"}}]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(newServerConfig(server.URL))
	defer client.Close()

	content, err := client.Chat(context.Background(), []common.ChatMessage{
		{Role: common.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello from the model", content)
	assert.Equal(t, "test-model", client.GetModel())
}

func TestOpenRouterChatErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(newServerConfig(server.URL))
	defer client.Close()

	_, err := client.Chat(context.Background(), []common.ChatMessage{{Role: common.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenRouterChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(newServerConfig(server.URL))
	defer client.Close()

	_, err := client.Chat(context.Background(), []common.ChatMessage{{Role: common.RoleUser, Content: "hi"}})
	assert.Error(t, err)
}

func TestServiceCompleteNotConfigured(t *testing.T) {
	svc := NewService(&config.Config{}, nil, nil)

	assert.False(t, svc.Available())

	result := svc.Complete(context.Background(), []common.ChatMessage{{Role: common.RoleUser, Content: "hi"}})
	assert.Equal(t, StatusFailed, result.Status)
	assert.Empty(t, result.Content)

	var nilSvc *Service
	assert.False(t, nilSvc.Available())
	assert.NoError(t, nilSvc.Close())
}
