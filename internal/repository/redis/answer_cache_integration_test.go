//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewAnswerCache(client, time.Minute)
	ctx := context.Background()
	q := "is there a dress code for the entrance exam?"
	t.Cleanup(func() { _ = cache.Forget(ctx, q) })

	_, found, err := cache.Get(ctx, q)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, q, "Wear your school uniform."))

	got, found, err := cache.Get(ctx, q)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Wear your school uniform.", got)

	ttl, err := client.TTL(ctx, answerKey(q)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Forget(ctx, q))
	_, found, err = cache.Get(ctx, q)
	require.NoError(t, err)
	assert.False(t, found)
}
