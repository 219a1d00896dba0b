package ai

import (
	"context"
	"time"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/ai/cache"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/infrastructure/config"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 生成式模型服務
// 在客戶端之上加一層回應快取，並把錯誤收斂成 Result
type Service struct {
	config       *config.Config
	client       Client
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
// client 為 nil 時表示未配置生成式模型，整個系統走本地規則模式
func NewService(cfg *config.Config, client Client, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		client:       client,
		cacheManager: cacheManager,
	}
}

// Available 是否配置了生成式模型
func (s *Service) Available() bool {
	return s != nil && s.client != nil
}

// Complete 發送整段對話並取得模型回應
// 傳輸層錯誤一律收斂成 StatusFailed，不往外拋
func (s *Service) Complete(ctx context.Context, messages []common.ChatMessage) Result {
	if !s.Available() {
		return Failed("generative model not configured")
	}

	// 以整段對話序列化後作為快取鍵
	cacheKey, err := common.ToJSON(messages)
	if err != nil {
		cacheKey = ""
	}

	// 檢查緩存
	if cacheKey != "" && s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, cacheKey); err == nil && val != "" {
			return OK(val)
		}
	}

	start := time.Now()
	content, err := s.client.Chat(ctx, messages)
	common.LogAICall("", time.Since(start), err, "")
	if err != nil {
		common.LogWarn("生成式模型調用失敗，降級為本地回應",
			zap.Error(err),
			zap.String("model", s.client.GetModel()),
		)
		return Failed(err.Error())
	}

	if cacheKey != "" && s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, cacheKey, content)
	}

	return OK(content)
}

// CompletePrompt 單一使用者提示的便捷包裝
func (s *Service) CompletePrompt(ctx context.Context, prompt string) Result {
	return s.Complete(ctx, []common.ChatMessage{
		{Role: common.RoleUser, Content: prompt},
	})
}

// Close 關閉底層客戶端
func (s *Service) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
