package service

import (
	"context"
	"sort"

	"github.com/iliyamo/table-reservation/internal/schedule"
)

// DefaultCeiling is the number of reservations accepted per slot.
const DefaultCeiling = 10

// SlotCounter is the read side of the reservation store used for capacity.
type SlotCounter interface {
	CountAt(ctx context.Context, slug, date, clock string, excludeID uint64) (int, error)
	TimesOn(ctx context.Context, slug, date string) ([]string, error)
}

// SlotLocker serialises writers on one slot.  Lock returns a release func.
type SlotLocker interface {
	Lock(ctx context.Context, slug, date, clock string) (func(), error)
}

// CapacityChecker enforces the per-slot ceiling.  Without a Locker the
// count and the following write are not atomic, so two concurrent requests
// can both pass and overbook a slot by one.
type CapacityChecker struct {
	Counter SlotCounter
	Ceiling int
	Locker  SlotLocker
}

func NewCapacityChecker(counter SlotCounter, ceiling int, locker SlotLocker) *CapacityChecker {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &CapacityChecker{Counter: counter, Ceiling: ceiling, Locker: locker}
}

// Check returns ErrCapacityExceeded when the slot already holds Ceiling
// reservations, not counting excludeID.
func (c *CapacityChecker) Check(ctx context.Context, slug, date, clock string, excludeID uint64) error {
	n, err := c.Counter.CountAt(ctx, slug, date, clock, excludeID)
	if err != nil {
		return internal("count slot", err)
	}
	if n >= c.Ceiling {
		return ErrCapacityExceeded
	}
	return nil
}

// Hold takes the slot lock when a Locker is configured.  The returned func
// is always safe to call.
func (c *CapacityChecker) Hold(ctx context.Context, slug, date, clock string) (func(), error) {
	if c.Locker == nil {
		return func() {}, nil
	}
	release, err := c.Locker.Lock(ctx, slug, date, clock)
	if err != nil {
		return nil, internal("lock slot", err)
	}
	return release, nil
}

// FullyBooked lists the hour buckets ("HH:00") on date that have reached
// the ceiling, in order. Buckets are coarser than Check, which counts the
// exact HH:MM slot, so an hour can be listed here while a half-hour slot
// inside it still admits bookings.
func (c *CapacityChecker) FullyBooked(ctx context.Context, slug, date string) ([]string, error) {
	times, err := c.Counter.TimesOn(ctx, slug, date)
	if err != nil {
		return nil, internal("list slot times", err)
	}
	counts := make(map[string]int)
	for _, t := range times {
		counts[schedule.HourBucket(t)]++
	}
	full := make([]string, 0)
	for hour, n := range counts {
		if n >= c.Ceiling {
			full = append(full, hour)
		}
	}
	sort.Strings(full)
	return full, nil
}
