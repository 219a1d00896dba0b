package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/api/handlers/chat"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/api/handlers/health"
	recipeHandler "github.com/Naviunni/sous-ducking-recipe-assistant/internal/api/handlers/recipe"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/api/middleware"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/ai"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/ai/cache"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/catalog"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/conversation"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/intent"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/session"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/substitution"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/infrastructure/config"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純文字對話不需要更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由並組裝所有服務
// 回傳的 cleanup 負責關閉會話儲存與模型連線
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager) (*gin.Engine, func(), error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg.DedupWindow))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 初始化服務
	var client ai.Client
	if cfg.OpenRouter.Enabled() {
		client = ai.NewOpenRouterClient(cfg)
	} else {
		common.LogWarn("OPENROUTER_API_KEY 未設置，對話將以規則模式運作")
	}
	aiService := ai.NewService(cfg, client, cacheManager)

	catalogStore, err := catalog.NewStore(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load recipe catalog: %w", err)
	}

	sessions, err := newSessionStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	engine := substitution.NewEngine(aiService)
	resolver := intent.NewResolver(aiService)
	conversationSvc := conversation.NewService(catalogStore, sessions, engine, resolver, aiService)

	common.LogInfo("Services initialized",
		zap.Bool("model_enabled", cfg.OpenRouter.Enabled()),
		zap.String("model", cfg.OpenRouter.Model),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Int("catalog_recipes", catalogStore.Len()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, catalogStore.Len, aiService.Available)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// 業務路由
	recipes := recipeHandler.NewHandler(catalogStore, engine)
	chats := chat.NewHandler(conversationSvc)

	router.GET("/recipes/:name", recipes.HandleGetRecipe)
	router.POST("/substitute", recipes.HandleSubstitute)
	router.POST("/ask", chats.HandleAsk)
	router.POST("/session/reset", chats.HandleReset)

	cleanup := func() {
		if err := sessions.Close(); err != nil {
			common.LogWarn("Failed to close session store", zap.Error(err))
		}
		if err := aiService.Close(); err != nil {
			common.LogWarn("Failed to close AI service", zap.Error(err))
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, cleanup, nil
}

// newSessionStore 依設定選擇會話後端
func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		return session.NewRedisStore(cfg.Session.RedisAddr, cfg.Session.RedisTTL, cfg.Session.HistorySize)
	default:
		return session.NewMemoryStore(cfg.Session.HistorySize), nil
	}
}
