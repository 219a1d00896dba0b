package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"
)

// dedupCache 最近請求指紋，用於去重
type dedupCache struct {
	mu       sync.Mutex
	requests map[string]time.Time
	window   time.Duration
}

func newDedupCache(window time.Duration) *dedupCache {
	c := &dedupCache{
		requests: make(map[string]time.Time),
		window:   window,
	}
	go c.cleanupLoop()
	return c
}

// seen 回報指紋是否在去重窗口內出現過，並記錄本次請求
func (d *dedupCache) seen(fingerprint string) bool {
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

func (d *dedupCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		d.mu.Lock()
		for k, t := range d.requests {
			if now.Sub(t) > 10*d.window {
				delete(d.requests, k)
			}
		}
		d.mu.Unlock()
	}
}

// Deduplication 請求去重中間件
// 同一個 POST 請求體在窗口內重送會被拒絕；窗口設為 0 表示關閉
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	cache := newDedupCache(window)

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體供後續處理器讀取
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		if cache.seen(fingerprint) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Request too frequent",
				"code":  "TOO_MANY_REQUESTS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
