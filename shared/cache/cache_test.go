package cache_test

import (
	"context"
	"errors"
	"tasklist/infras/otel/mocks"
	"tasklist/shared/cache"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewRedisCache(nil, mocks.NewOtel())

	assert.NoError(t, c.Save(ctx, "todo:1:1", map[string]any{"id": 1}, 60))

	var out map[string]any
	err := c.Get(ctx, "todo:1:1", &out)
	assert.True(t, errors.Is(err, cache.Nil), "expected a miss, got %v", err)
	assert.Nil(t, out)

	assert.NoError(t, c.Delete(ctx, "todo:1:1"))
	assert.NoError(t, c.Clear(ctx, "todo:1"))
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewRedisCache(client, mocks.NewOtel())

	var out string
	err := c.Get(ctx, "key", &out)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, cache.Nil), "connection errors must not look like a miss")

	assert.Error(t, c.Save(ctx, "key", "value", 60))
	assert.Error(t, c.Delete(ctx, "key"))
}

func TestRedisCacheMarshalError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewRedisCache(client, mocks.NewOtel())

	err := c.Save(context.Background(), "key", make(chan int), 60)
	assert.ErrorContains(t, err, "failed to marshal cache value")
}
