package config

import (
	"strings"

	"github.com/iliyamo/table-reservation/internal/ratelimit"
)

// RateLimitConfig selects and tunes the failed-attempt lockout.
type RateLimitConfig struct {
	Enabled bool
	Backend string // memory, redis or auto
	Limiter ratelimit.Config
}

// LoadRateLimitConfig reads RL_* variables.  Defaults: 5 failures in a
// 10 minute window lock the key for 15 minutes.
func LoadRateLimitConfig() RateLimitConfig {
	def := ratelimit.DefaultConfig()
	return RateLimitConfig{
		Enabled: envBool("RL_ENABLED", true),
		Backend: strings.ToLower(envStr("RL_BACKEND", ratelimit.BackendAuto)),
		Limiter: ratelimit.Config{
			MaxFails: envInt("RL_MAX_FAILS", def.MaxFails),
			Window:   envMillis("RL_WINDOW_MS", def.Window),
			Lock:     envMillis("RL_LOCK_MS", def.Lock),
			Prefix:   envStr("RL_PREFIX", def.Prefix),
		},
	}
}
