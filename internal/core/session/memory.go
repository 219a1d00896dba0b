package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"
)

// record 單一會話的內部狀態
type record struct {
	currentRecipe *common.Recipe
	dislikes      map[string]struct{}
	messages      []common.ChatMessage
}

func newRecord() *record {
	return &record{
		dislikes: make(map[string]struct{}),
	}
}

// MemoryStore 行程內記憶體會話儲存
// 同一會話的並發請求靠這把鎖互斥，避免更新遺失
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*record
	maxMsgs  int
}

// NewMemoryStore 創建記憶體會話儲存
func NewMemoryStore(maxMessages int) *MemoryStore {
	if maxMessages <= 0 {
		maxMessages = historyLimit
	}
	return &MemoryStore{
		sessions: make(map[string]*record),
		maxMsgs:  maxMessages,
	}
}

// getOrCreate 取得或建立會話，呼叫端需持有寫鎖
func (s *MemoryStore) getOrCreate(id string) *record {
	rec, ok := s.sessions[id]
	if !ok {
		rec = newRecord()
		s.sessions[id] = rec
	}
	return rec
}

// Dislikes 回傳排序後的不喜歡食材集合拷貝
func (s *MemoryStore) Dislikes(ctx context.Context, id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(rec.dislikes))
	for d := range rec.dislikes {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

// AddDislike 加入一個不喜歡的食材
func (s *MemoryStore) AddDislike(ctx context.Context, id, term string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(id)
	rec.dislikes[term] = struct{}{}
	return nil
}

// CurrentRecipe 回傳目前食譜的拷貝
func (s *MemoryStore) CurrentRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok || rec.currentRecipe == nil {
		return nil, nil
	}
	return rec.currentRecipe.Clone(), nil
}

// SetCurrentRecipe 整份替換目前食譜快照
func (s *MemoryStore) SetCurrentRecipe(ctx context.Context, id string, recipe *common.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(id)
	rec.currentRecipe = recipe.Clone()
	return nil
}

// AppendMessage 追加一則對話訊息，超過上限時淘汰最舊的
func (s *MemoryStore) AppendMessage(ctx context.Context, id, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(id)
	rec.messages = append(rec.messages, common.ChatMessage{Role: role, Content: content})
	if len(rec.messages) > s.maxMsgs {
		rec.messages = rec.messages[len(rec.messages)-s.maxMsgs:]
	}
	return nil
}

// Messages 回傳最近 limit 筆對話訊息的拷貝
func (s *MemoryStore) Messages(ctx context.Context, id string, limit int) ([]common.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	msgs := rec.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]common.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Reset 刪除整個會話記錄
func (s *MemoryStore) Reset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Close 關閉儲存
func (s *MemoryStore) Close() error {
	return nil
}
