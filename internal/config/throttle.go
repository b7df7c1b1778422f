package config

import "time"

// ThrottleConfig tunes the per-IP token bucket in front of the reservation
// code routes.  It only runs when Redis is available.
type ThrottleConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadThrottleConfig reads THROTTLE_* variables.  Defaults allow a burst of
// 30 lookups refilled at 1 per 2 seconds.
func LoadThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		Enabled:        envBool("THROTTLE_ENABLED", true),
		Capacity:       envInt("THROTTLE_CAPACITY", 30),
		RefillTokens:   envInt("THROTTLE_REFILL_TOKENS", 1),
		RefillInterval: envDur("THROTTLE_REFILL_INTERVAL", 2*time.Second),
		TTL:            envDur("THROTTLE_TTL", 10*time.Minute),
		Prefix:         envStr("THROTTLE_PREFIX", "throttle"),
	}
}
