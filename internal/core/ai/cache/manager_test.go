package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/infrastructure/config"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(maxSize int, ttl time.Duration) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Hour,
		},
	}
}

func TestManagerDisabled(t *testing.T) {
	cfg := &config.Config{}
	m := NewManager(cfg)
	assert.Nil(t, m)

	// nil 管理器的所有操作都必須安全
	_, err := m.Get(context.Background(), "prompt")
	assert.ErrorIs(t, err, common.ErrCacheDisabled)
	assert.NoError(t, m.Set(context.Background(), "prompt", "value"))
	assert.Nil(t, m.GetStats())
	assert.NoError(t, m.Close())
}

func TestManagerSetAndGet(t *testing.T) {
	m := NewManager(newTestConfig(10, time.Minute))
	require.NotNil(t, m)
	ctx := context.Background()

	_, err := m.Get(ctx, "prompt")
	assert.Error(t, err)

	require.NoError(t, m.Set(ctx, "prompt", "value"))

	val, err := m.Get(ctx, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestManagerTTLExpiry(t *testing.T) {
	m := NewManager(newTestConfig(10, 10*time.Millisecond))
	require.NotNil(t, m)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "prompt", "value"))
	time.Sleep(20 * time.Millisecond)

	_, err := m.Get(ctx, "prompt")
	assert.Error(t, err)
}

func TestManagerLRUEviction(t *testing.T) {
	m := NewManager(newTestConfig(2, time.Minute))
	require.NotNil(t, m)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))

	// a 被訪問過，淘汰時先踢 b
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	val, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	_, err = m.Get(ctx, "b")
	assert.Error(t, err)

	val, err = m.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", val)
}

func TestManagerCloseClearsStore(t *testing.T) {
	m := NewManager(newTestConfig(10, time.Minute))
	require.NotNil(t, m)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "prompt", "value"))
	require.NoError(t, m.Close())

	_, err := m.Get(ctx, "prompt")
	assert.Error(t, err)
}
