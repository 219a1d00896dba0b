package session

import (
	"context"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"
)

// Store 會話儲存介面
// 注入請求處理層，記憶體與 Redis 後端皆實作此介面
type Store interface {
	// Dislikes 回傳排序後的不喜歡食材集合拷貝
	Dislikes(ctx context.Context, id string) ([]string, error)

	// AddDislike 加入一個不喜歡的食材（轉小寫），集合只增不減
	AddDislike(ctx context.Context, id, term string) error

	// CurrentRecipe 回傳目前食譜的拷貝，沒有時為 nil
	CurrentRecipe(ctx context.Context, id string) (*common.Recipe, error)

	// SetCurrentRecipe 整份替換目前食譜快照
	SetCurrentRecipe(ctx context.Context, id string, recipe *common.Recipe) error

	// AppendMessage 追加一則對話訊息，超過上限時淘汰最舊的
	AppendMessage(ctx context.Context, id, role, content string) error

	// Messages 回傳最近 limit 筆對話訊息的拷貝
	Messages(ctx context.Context, id string, limit int) ([]common.ChatMessage, error)

	// Reset 刪除整個會話記錄
	Reset(ctx context.Context, id string) error

	// Close 關閉儲存
	Close() error
}

// historyLimit 每個會話保留的訊息上限
const historyLimit = 50
