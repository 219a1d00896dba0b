package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/infrastructure/config"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Model     string                 `json:"model,omitempty"`
	Catalog   int                    `json:"catalog_recipes"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理程序
type Handler struct {
	config      *config.Config
	catalogSize func() int
	aiAvailable func() bool
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, catalogSize func() int, aiAvailable func() bool) *Handler {
	return &Handler{
		config:      cfg,
		catalogSize: catalogSize,
		aiAvailable: aiAvailable,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Catalog:   h.catalogSize(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":  m.Alloc,
				"sys":    m.Sys,
				"num_gc": m.NumGC,
			},
		},
	}
	if h.aiAvailable() {
		response.Model = h.config.OpenRouter.Model
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
