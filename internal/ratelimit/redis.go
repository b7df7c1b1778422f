package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// failScript increments the fail counter, starts its window on the first
// increment only, and swaps the counter for a lock once the threshold is
// reached.  An existing lock short-circuits the increment.
var failScript = redis.NewScript(`
	local count_key = KEYS[1]
	local lock_key = KEYS[2]
	local max_fails = tonumber(ARGV[1])
	local window_ms = tonumber(ARGV[2])
	local lock_ms = tonumber(ARGV[3])

	local ttl = redis.call('PTTL', lock_key)
	if ttl > 0 then
		return { 1, ttl }
	end

	local n = redis.call('INCR', count_key)
	if n == 1 then
		redis.call('PEXPIRE', count_key, window_ms)
	end
	if n >= max_fails then
		redis.call('SET', lock_key, '1', 'PX', lock_ms)
		redis.call('DEL', count_key)
		return { 1, lock_ms }
	end
	return { 0, 0 }
`)

// Redis shares counters across instances.  Expiry is left to key TTLs.
type Redis struct {
	cfg Config
	rdb redis.Cmdable
}

func NewRedis(cfg Config, rdb redis.Cmdable) *Redis {
	return &Redis{cfg: cfg.withDefaults(), rdb: rdb}
}

func (r *Redis) countKey(key string) string { return r.cfg.Prefix + ":" + key + ":count" }
func (r *Redis) lockKey(key string) string  { return r.cfg.Prefix + ":" + key + ":lock" }

func (r *Redis) Check(ctx context.Context, key string) (Result, error) {
	ttl, err := r.rdb.PTTL(ctx, r.lockKey(key)).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit check: %w", err)
	}
	if ttl > 0 {
		return Result{Locked: true, RetryAfter: ttl}, nil
	}
	return Result{}, nil
}

func (r *Redis) Fail(ctx context.Context, key string) (Result, error) {
	vals, err := failScript.Run(ctx, r.rdb,
		[]string{r.countKey(key), r.lockKey(key)},
		r.cfg.MaxFails, r.cfg.Window.Milliseconds(), r.cfg.Lock.Milliseconds(),
	).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit fail: %w", err)
	}
	return parseScriptResult(vals)
}

func (r *Redis) Success(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.countKey(key), r.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("ratelimit success: %w", err)
	}
	return nil
}

// parseScriptResult decodes the {locked, retry_ms} pair returned by
// failScript.
func parseScriptResult(vals interface{}) (Result, error) {
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 2 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script result %#v", vals)
	}
	locked := asInt64(arr[0]) == 1
	if !locked {
		return Result{}, nil
	}
	return Result{Locked: true, RetryAfter: time.Duration(asInt64(arr[1])) * time.Millisecond}, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
