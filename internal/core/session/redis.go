package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// redisRecord Redis 中序列化的會話狀態
type redisRecord struct {
	CurrentRecipe *common.Recipe       `json:"current_recipe"`
	Dislikes      []string             `json:"dislikes"`
	Messages      []common.ChatMessage `json:"messages"`
}

// RedisStore Redis 會話儲存
// 以 WATCH 做樂觀鎖的讀改寫，避免跨實例的更新遺失
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	maxMsgs int
}

// NewRedisStore 創建 Redis 會話儲存並測試連接
func NewRedisStore(addr string, ttl time.Duration, maxMessages int) (*RedisStore, error) {
	if maxMessages <= 0 {
		maxMessages = historyLimit
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:  client,
		ttl:     ttl,
		maxMsgs: maxMessages,
	}, nil
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// load 讀取會話記錄，不存在時回傳空記錄
func (s *RedisStore) load(ctx context.Context, id string) (*redisRecord, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return &redisRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &rec, nil
}

// update 在 WATCH 下做讀改寫，衝突時重試
func (s *RedisStore) update(ctx context.Context, id string, fn func(rec *redisRecord)) error {
	key := s.key(id)

	txn := func(tx *redis.Tx) error {
		rec := &redisRecord{}
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, rec); err != nil {
				return fmt.Errorf("failed to unmarshal session: %w", err)
			}
		}

		fn(rec)

		buf, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, s.ttl)
			return nil
		})
		return err
	}

	// 最多重試三次
	for i := 0; i < 3; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return fmt.Errorf("session update conflict: %s", id)
}

// Dislikes 回傳排序後的不喜歡食材集合拷貝
func (s *RedisStore) Dislikes(ctx context.Context, id string) ([]string, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), rec.Dislikes...)
	sort.Strings(out)
	return out, nil
}

// AddDislike 加入一個不喜歡的食材
func (s *RedisStore) AddDislike(ctx context.Context, id, term string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	return s.update(ctx, id, func(rec *redisRecord) {
		for _, d := range rec.Dislikes {
			if d == term {
				return
			}
		}
		rec.Dislikes = append(rec.Dislikes, term)
	})
}

// CurrentRecipe 回傳目前食譜的拷貝
func (s *RedisStore) CurrentRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.CurrentRecipe.Clone(), nil
}

// SetCurrentRecipe 整份替換目前食譜快照
func (s *RedisStore) SetCurrentRecipe(ctx context.Context, id string, recipe *common.Recipe) error {
	return s.update(ctx, id, func(rec *redisRecord) {
		rec.CurrentRecipe = recipe.Clone()
	})
}

// AppendMessage 追加一則對話訊息，超過上限時淘汰最舊的
func (s *RedisStore) AppendMessage(ctx context.Context, id, role, content string) error {
	return s.update(ctx, id, func(rec *redisRecord) {
		rec.Messages = append(rec.Messages, common.ChatMessage{Role: role, Content: content})
		if len(rec.Messages) > s.maxMsgs {
			rec.Messages = rec.Messages[len(rec.Messages)-s.maxMsgs:]
		}
	})
}

// Messages 回傳最近 limit 筆對話訊息
func (s *RedisStore) Messages(ctx context.Context, id string, limit int) ([]common.ChatMessage, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	msgs := rec.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// Reset 刪除整個會話記錄
func (s *RedisStore) Reset(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Close 關閉 Redis 連接
func (s *RedisStore) Close() error {
	return s.client.Close()
}
