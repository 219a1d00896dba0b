package chat

import (
	"net/http"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/conversation"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AskRequest 對話請求
// message 不設 required：空字串要交給對話層回固定提示，不是 400
type AskRequest struct {
	SessionID string `json:"session_id"` // 會話識別碼，省略時由伺服器生成
	Message   string `json:"message"`    // 使用者訊息
}

// AskResponse 對話回覆
type AskResponse struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Recipe    *common.Recipe `json:"recipe"`
}

// ResetRequest 會話重置請求
type ResetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Handler 對話處理程序
type Handler struct {
	service *conversation.Service
}

// NewHandler 創建對話處理程序
func NewHandler(service *conversation.Service) *Handler {
	return &Handler{service: service}
}

// HandleAsk 處理一則對話訊息
func (h *Handler) HandleAsk(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	common.LogInfo("開始處理對話請求",
		zap.String("request_id", requestID),
		zap.String("session_id", sessionID),
		zap.Int("message_length", len(req.Message)),
	)

	reply, err := h.service.Ask(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		common.LogError("對話處理失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("session_id", sessionID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		SessionID: sessionID,
		Reply:     reply.Text,
		Recipe:    reply.Recipe,
	})
}

// HandleReset 清除會話狀態
func (h *Handler) HandleReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.service.Reset(c.Request.Context(), req.SessionID); err != nil {
		common.LogError("會話重置失敗",
			zap.Error(err),
			zap.String("session_id", req.SessionID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset session"})
		return
	}

	common.LogInfo("會話已重置",
		zap.String("session_id", req.SessionID),
	)

	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
