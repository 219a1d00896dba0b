package recipe

import (
	"net/http"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/catalog"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/substitution"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubstituteRequest 查詢食材替代品
type SubstituteRequest struct {
	Ingredient string   `json:"ingredient" binding:"required"` // 欲替換的食材名稱
	Dislikes   []string `json:"dislikes,omitempty"`            // 另外排除的食材
}

// SubstituteResponse 替代品清單
type SubstituteResponse struct {
	Substitutes []string `json:"substitutes"`
}

// Handler 食譜查詢處理程序
type Handler struct {
	catalogStore *catalog.Store
	engine       *substitution.Engine
}

// NewHandler 創建食譜查詢處理程序
func NewHandler(catalogStore *catalog.Store, engine *substitution.Engine) *Handler {
	return &Handler{
		catalogStore: catalogStore,
		engine:       engine,
	}
}

// HandleGetRecipe 依名稱查詢食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe name is required"})
		return
	}

	recipe, err := h.catalogStore.FindByName(name)
	if err != nil {
		// 回應主體固定用英文 detail，狀態碼跟著預定義錯誤走
		c.JSON(common.ErrRecipeNotFound.Status, gin.H{"detail": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// HandleSubstitute 查詢單一食材的替代品
func (h *Handler) HandleSubstitute(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req SubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ingredient := strings.TrimSpace(req.Ingredient)
	if ingredient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient is required"})
		return
	}

	substitutes := h.engine.Suggest(c.Request.Context(), ingredient)

	// 已知不喜歡的食材不能當替代品
	if len(req.Dislikes) > 0 {
		excluded := make(map[string]struct{}, len(req.Dislikes))
		for _, d := range req.Dislikes {
			excluded[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
		}
		filtered := substitutes[:0]
		for _, s := range substitutes {
			if _, ok := excluded[strings.ToLower(s)]; !ok {
				filtered = append(filtered, s)
			}
		}
		substitutes = filtered
	}

	common.LogInfo("替代品查詢完成",
		zap.String("request_id", requestID),
		zap.String("ingredient", ingredient),
		zap.Int("count", len(substitutes)),
	)

	c.JSON(http.StatusOK, SubstituteResponse{
		Substitutes: substitutes,
	})
}
