package ratelimit

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptResult(t *testing.T) {
	res, err := parseScriptResult([]interface{}{int64(1), int64(900000)})
	require.NoError(t, err)
	assert.True(t, res.Locked)
	assert.Equal(t, 15*time.Minute, res.RetryAfter)

	res, err = parseScriptResult([]interface{}{int64(0), int64(0)})
	require.NoError(t, err)
	assert.False(t, res.Locked)

	_, err = parseScriptResult("nope")
	assert.Error(t, err)
}

func TestRedisKeys(t *testing.T) {
	r := NewRedis(Config{}, nil)
	assert.Equal(t, "rl:login:1.2.3.4:count", r.countKey("login:1.2.3.4"))
	assert.Equal(t, "rl:login:1.2.3.4:lock", r.lockKey("login:1.2.3.4"))
}

// newTestRedis runs against an in-process miniredis, or a real server when
// TEST_REDIS_URL is set.  The returned miniredis is nil for a real server.
func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		require.NoError(t, err)
		rdb := redis.NewClient(opts)
		t.Cleanup(func() { _ = rdb.Close() })
		require.NoError(t, rdb.Ping(context.Background()).Err())
		return rdb, nil
	}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// fastForward expires keys on miniredis; a real server cannot be advanced.
func fastForward(t *testing.T, mr *miniredis.Miniredis, d time.Duration) {
	t.Helper()
	if mr == nil {
		t.Skip("cannot advance time on a real Redis")
	}
	mr.FastForward(d)
}

func newTestLimiter(t *testing.T) (*Redis, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	rdb, mr := newTestRedis(t)
	return NewRedis(Config{Prefix: "rltest-" + uuid.NewString()}, rdb), rdb, mr
}

func TestRedisLockout(t *testing.T) {
	r, rdb, _ := newTestLimiter(t)
	ctx := context.Background()
	key := "reservation:10.0.0.1"
	t.Cleanup(func() { _ = r.Success(context.Background(), key) })

	for i := 1; i <= 4; i++ {
		res, err := r.Fail(ctx, key)
		require.NoError(t, err)
		assert.False(t, res.Locked, "attempt %d", i)
	}
	ttl, err := rdb.PTTL(ctx, r.countKey(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 10*time.Minute)

	res, err := r.Fail(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Locked)
	assert.Equal(t, 15*time.Minute, res.RetryAfter)

	n, err := rdb.Exists(ctx, r.countKey(key)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	res, err = r.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Locked)
	assert.Greater(t, res.RetryAfter, 14*time.Minute)

	require.NoError(t, r.Success(ctx, key))
	res, err = r.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Locked)
}

func TestRedisWindowStartsOnFirstFailure(t *testing.T) {
	r, rdb, mr := newTestLimiter(t)
	ctx := context.Background()
	key := "login:10.0.0.2"

	_, err := r.Fail(ctx, key)
	require.NoError(t, err)
	fastForward(t, mr, 4*time.Minute)
	_, err = r.Fail(ctx, key)
	require.NoError(t, err)

	// A later failure must not push the window out.
	ttl, err := rdb.PTTL(ctx, r.countKey(key)).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 6*time.Minute)
}

func TestRedisWindowReset(t *testing.T) {
	r, _, mr := newTestLimiter(t)
	ctx := context.Background()
	key := "reservation:10.0.0.3"

	for i := 0; i < 4; i++ {
		_, err := r.Fail(ctx, key)
		require.NoError(t, err)
	}
	fastForward(t, mr, 11*time.Minute)

	for i := 1; i <= 4; i++ {
		res, err := r.Fail(ctx, key)
		require.NoError(t, err)
		assert.False(t, res.Locked, "attempt %d after the window", i)
	}
	res, err := r.Fail(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Locked)
}

func TestRedisLockExpires(t *testing.T) {
	r, _, mr := newTestLimiter(t)
	ctx := context.Background()
	key := "reservation:10.0.0.4"

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Fail(ctx, key)
		}()
	}
	wg.Wait()

	res, err := r.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Locked)

	// Failures while locked report the remaining lock, not a fresh one.
	fastForward(t, mr, 5*time.Minute)
	res, err = r.Fail(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Locked)
	assert.LessOrEqual(t, res.RetryAfter, 10*time.Minute)

	fastForward(t, mr, 11*time.Minute)
	res, err = r.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Locked)
}
