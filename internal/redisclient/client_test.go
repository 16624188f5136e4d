package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Integration test - requires redis (set REDIS_TEST_ADDR)")
	}

	c := NewFromRedis(redis.NewClient(&redis.Options{Addr: addr}))
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(context.Background()))
	return c
}

func TestIdempotencyKeyLayout(t *testing.T) {
	assert.Equal(t, "idempotency:confirm-order:s-1:k-1", idempotencyKey("confirm-order:s-1", "k-1"))
	assert.NotEqual(t, idempotencyKey("add-stock:s-1", "k"), idempotencyKey("confirm-order:s-1", "k"))
}

func TestIdempotencyKeyRoundTrip(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	key := uuid.New().String()

	require.NoError(t, c.SetIdempotencyKey(ctx, "confirm-order:s-1", key, "order-42", time.Minute))

	val, ok, err := c.GetIdempotencyKey(ctx, "confirm-order:s-1", key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "order-42", val)

	raw, err := c.rdb.Get(ctx, "idempotency:confirm-order:s-1:"+key).Result()
	require.NoError(t, err)
	assert.Equal(t, "order-42", raw)
}

func TestIdempotencyKeyMiss(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	val, ok, err := c.GetIdempotencyKey(ctx, "add-stock:s-1", uuid.New().String())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestIdempotencyKeyScopesAreSeparate(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	key := uuid.New().String()

	require.NoError(t, c.SetIdempotencyKey(ctx, "add-stock:s-1", key, "item-1", time.Minute))

	_, ok, err := c.GetIdempotencyKey(ctx, "add-stock:s-2", key)
	require.NoError(t, err)
	assert.False(t, ok)
}
