// Package ratelimit counts failed attempts per caller key and locks the key
// out once too many failures land inside a window.  Two backings implement
// the same Limiter contract: Memory for a single instance and Redis for a
// fleet sharing one counter store.
package ratelimit

import (
	"context"
	"time"
)

// Result is the state of a key after a call.  RetryAfter is only set when
// Locked is true.
type Result struct {
	Locked     bool
	RetryAfter time.Duration
}

// Limiter is the failure counter guarding create and login.
type Limiter interface {
	// Check reports whether key is currently locked out.
	Check(ctx context.Context, key string) (Result, error)
	// Fail records a failed attempt and locks the key once MaxFails is
	// reached inside Window.  The counter resets when the lock is set.
	Fail(ctx context.Context, key string) (Result, error)
	// Success clears every counter for key.
	Success(ctx context.Context, key string) error
}

// Config tunes the lockout.
type Config struct {
	MaxFails int
	Window   time.Duration
	Lock     time.Duration
	Prefix   string
}

// DefaultConfig is five failures in ten minutes locking for fifteen.
func DefaultConfig() Config {
	return Config{MaxFails: 5, Window: 10 * time.Minute, Lock: 15 * time.Minute, Prefix: "rl"}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxFails < 1 {
		c.MaxFails = def.MaxFails
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.Lock <= 0 {
		c.Lock = def.Lock
	}
	if c.Prefix == "" {
		c.Prefix = def.Prefix
	}
	return c
}

// Noop never locks anyone out.
type Noop struct{}

func (Noop) Check(context.Context, string) (Result, error) { return Result{}, nil }
func (Noop) Fail(context.Context, string) (Result, error)  { return Result{}, nil }
func (Noop) Success(context.Context, string) error         { return nil }
