package ai

import (
	"context"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"
)

// Status 表示一次生成式模型調用的結果狀態
// 讓呼叫端自行決定對使用者的措辭，而不是從錯誤裡重新推斷
type Status int

const (
	// StatusOK 成功取得模型回應
	StatusOK Status = iota
	// StatusDegraded 模型有回應但內容無法使用（格式錯誤等），已降級
	StatusDegraded
	// StatusFailed 傳輸層失敗（逾時、網路、認證）
	StatusFailed
)

// String 提供日誌用的狀態名稱
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Result 生成式模型調用結果
type Result struct {
	Status  Status
	Content string
	Reason  string
}

// OK 成功結果
func OK(content string) Result {
	return Result{Status: StatusOK, Content: content}
}

// Degraded 降級結果
func Degraded(reason string) Result {
	return Result{Status: StatusDegraded, Reason: reason}
}

// Failed 失敗結果
func Failed(reason string) Result {
	return Result{Status: StatusFailed, Reason: reason}
}

// Client 定義生成式模型客戶端介面
type Client interface {
	// Chat 發送整段對話並取得模型回應文字
	Chat(ctx context.Context, messages []common.ChatMessage) (string, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉客戶端連接
	Close() error
}
