package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"pywhiz/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "pywhiz:content:milestones:active"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(`[{"id":"m1"}]`)
		val, err := cache.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, `[{"id":"m1"}]`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(key).SetErr(redisErr)
		val, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectSet("k", "v", 10*time.Minute).SetVal("OK")
	assert.NoError(t, cache.Set(ctx, "k", "v", 10*time.Minute))

	setErr := errors.New("OOM")
	mock.ExpectSet("k", "v", time.Minute).SetErr(setErr)
	assert.ErrorIs(t, cache.Set(ctx, "k", "v", time.Minute), setErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_DeleteAndPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectDel("k").SetVal(0)
	assert.NoError(t, cache.Delete(ctx, "k"))

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, cache.Ping(ctx))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, cache.Ping(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
