package ratelimit

import (
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Build.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendAuto   = "auto"
)

// Build picks a backing at startup.  "auto" uses Redis when a client is
// available and falls back to memory otherwise; "redis" without a client
// also falls back, with a warning.
func Build(enabled bool, backend string, cfg Config, rdb *redis.Client) Limiter {
	if !enabled {
		log.Printf("ratelimit: disabled")
		return Noop{}
	}
	switch strings.ToLower(backend) {
	case BackendMemory:
		return NewMemory(cfg, nil)
	case BackendRedis:
		if rdb == nil {
			log.Printf("ratelimit: redis requested but unavailable, using memory")
			return NewMemory(cfg, nil)
		}
		return NewRedis(cfg, rdb)
	default:
		if rdb != nil {
			return NewRedis(cfg, rdb)
		}
		return NewMemory(cfg, nil)
	}
}
