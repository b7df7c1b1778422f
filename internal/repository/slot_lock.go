package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrLockTimeout is returned when a slot lock could not be taken before the
// wait expired.
var ErrLockTimeout = errors.New("slot lock timeout")

// SlotLocker serialises check-then-write sequences for one slot using MySQL
// named locks.  The lock lives on a dedicated connection taken from the
// pool, so it is held until the returned release func runs.
type SlotLocker struct {
	DB   *sql.DB
	Wait time.Duration
}

func NewSlotLocker(db *sql.DB, wait time.Duration) *SlotLocker {
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &SlotLocker{DB: db, Wait: wait}
}

// SlotLockName builds the lock name for a restaurant slot.  MySQL caps lock
// names at 64 characters.
func SlotLockName(slug, date, clock string) string {
	name := fmt.Sprintf("slot:%s:%s:%s", slug, date, clock)
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}

// Lock acquires the named lock for the slot.
func (l *SlotLocker) Lock(ctx context.Context, slug, date, clock string) (func(), error) {
	conn, err := l.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("slot lock conn: %w", err)
	}
	name := SlotLockName(slug, date, clock)
	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, int(l.Wait.Seconds())).Scan(&got); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("slot lock: %w", err)
	}
	if !got.Valid || got.Int64 != 1 {
		_ = conn.Close()
		return nil, ErrLockTimeout
	}
	return func() {
		// The request context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = conn.ExecContext(rctx, "SELECT RELEASE_LOCK(?)", name)
		_ = conn.Close()
	}, nil
}
