package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/infrastructure/config"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenRouterClient OpenRouter 客戶端
type OpenRouterClient struct {
	config *config.Config
	client *resty.Client
}

// NewOpenRouterClient 創建 OpenRouter 客戶端
func NewOpenRouterClient(cfg *config.Config) *OpenRouterClient {
	client := resty.New().
		SetBaseURL(cfg.OpenRouter.BaseURL).
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://sous-ducking.com").
		SetHeader("X-Title", "Sous Ducking")

	return &OpenRouterClient{
		config: cfg,
		client: client,
	}
}

// Chat 發送整段對話並取得模型回應
func (c *OpenRouterClient) Chat(ctx context.Context, messages []common.ChatMessage) (string, error) {
	// 構建請求
	req := map[string]interface{}{
		"model":      c.config.OpenRouter.Model,
		"messages":   messages,
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", c.config.OpenRouter.Model),
		zap.Int("messages", len(messages)),
	)

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in OpenRouter response")
	}

	return content, nil
}

// GetModel 獲取當前使用的模型名稱
func (c *OpenRouterClient) GetModel() string {
	return c.config.OpenRouter.Model
}

// Close 關閉客戶端
func (c *OpenRouterClient) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
