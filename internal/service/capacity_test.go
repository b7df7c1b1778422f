package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCounter struct{}

func (brokenCounter) CountAt(context.Context, string, string, string, uint64) (int, error) {
	return 0, errors.New("timeout")
}

func (brokenCounter) TimesOn(context.Context, string, string) ([]string, error) {
	return nil, errors.New("timeout")
}

func TestCapacityChecker(t *testing.T) {
	store := newMemStore()
	c := NewCapacityChecker(store, 3, nil)
	ctx := context.Background()

	store.seed("default", "2025-01-07", "19:00", 2)
	require.NoError(t, c.Check(ctx, "default", "2025-01-07", "19:00", 0))

	store.seed("default", "2025-01-07", "19:00", 1)
	assert.ErrorIs(t, c.Check(ctx, "default", "2025-01-07", "19:00", 0), ErrCapacityExceeded)
	assert.NoError(t, c.Check(ctx, "default", "2025-01-07", "19:00", 1))
	assert.NoError(t, c.Check(ctx, "default", "2025-01-07", "20:00", 0))

	full, err := c.FullyBooked(ctx, "default", "2025-01-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"19:00"}, full)
}

func TestFullyBookedGroupsByHourWhileCheckUsesExactTime(t *testing.T) {
	store := newMemStore()
	c := NewCapacityChecker(store, 3, nil)
	ctx := context.Background()

	store.seed("default", "2025-01-07", "12:00", 2)
	store.seed("default", "2025-01-07", "12:30", 1)

	full, err := c.FullyBooked(ctx, "default", "2025-01-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00"}, full)

	assert.NoError(t, c.Check(ctx, "default", "2025-01-07", "12:00", 0))
	assert.NoError(t, c.Check(ctx, "default", "2025-01-07", "12:30", 0))
}

func TestCapacityCheckerDefaultsAndErrors(t *testing.T) {
	c := NewCapacityChecker(brokenCounter{}, 0, nil)
	assert.Equal(t, DefaultCeiling, c.Ceiling)

	ctx := context.Background()
	assert.ErrorIs(t, c.Check(ctx, "default", "2025-01-07", "19:00", 0), ErrInternal)
	_, err := c.FullyBooked(ctx, "default", "2025-01-07")
	assert.ErrorIs(t, err, ErrInternal)

	release, err := c.Hold(ctx, "default", "2025-01-07", "19:00")
	require.NoError(t, err)
	release()
}

func TestRateLimitedError(t *testing.T) {
	err := &RateLimitedError{RetryAfter: 90_500_000_000}
	assert.Equal(t, "too many attempts, retry after 1m31s", err.Error())
}
