package server

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCounterReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	n, ttl, err := NewRedisCounter(client, "ecoquest-test:").Hit(t.Context(), "login:10.0.0.1", time.Minute)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Zero(t, ttl)
}

func TestRedisCounterWindow(t *testing.T) {
	addr := os.Getenv("ECOQUEST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ECOQUEST_TEST_REDIS_ADDR not set")
	}
	ctx := t.Context()
	client := redis.NewClient(&redis.Options{Addr: addr})
	prefix := "ecoquest-test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	c := NewRedisCounter(client, prefix)

	n, ttl, err := c.Hit(ctx, "login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 1)

	n, ttl, err = c.Hit(ctx, "login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, time.Minute)

	// A window left without an expiry is re-armed by the next hit.
	stuck := prefix + "rate_limit:login:10.0.0.2"
	require.NoError(t, client.Set(ctx, stuck, 9, 0).Err())
	n, ttl, err = c.Hit(ctx, "login:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)
	assert.Positive(t, ttl)
	remaining, err := client.TTL(ctx, stuck).Result()
	require.NoError(t, err)
	assert.Positive(t, remaining)
}
