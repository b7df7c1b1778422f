package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	fails     int
	first     time.Time
	lockUntil time.Time
}

// Memory keeps counters in a map guarded by a mutex.  Expired entries are
// dropped lazily when read, and state is lost on restart.
type Memory struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewMemory returns an in-process limiter.  A nil now uses time.Now.
func NewMemory(cfg Config, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{cfg: cfg.withDefaults(), now: now, entries: make(map[string]*entry)}
}

func (m *Memory) Check(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now()
	e, ok := m.entries[key]
	if !ok {
		return Result{}, nil
	}
	if t.Before(e.lockUntil) {
		return Result{Locked: true, RetryAfter: e.lockUntil.Sub(t)}, nil
	}
	if t.Sub(e.first) > m.cfg.Window {
		delete(m.entries, key)
	}
	return Result{}, nil
}

func (m *Memory) Fail(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{first: t}
		m.entries[key] = e
	}
	if t.Before(e.lockUntil) {
		return Result{Locked: true, RetryAfter: e.lockUntil.Sub(t)}, nil
	}
	if t.Sub(e.first) > m.cfg.Window {
		e.fails = 0
		e.first = t
		e.lockUntil = time.Time{}
	}
	e.fails++
	if e.fails >= m.cfg.MaxFails {
		e.lockUntil = t.Add(m.cfg.Lock)
		e.fails = 0
		e.first = t
		return Result{Locked: true, RetryAfter: m.cfg.Lock}, nil
	}
	return Result{}, nil
}

func (m *Memory) Success(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len reports how many keys are tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
