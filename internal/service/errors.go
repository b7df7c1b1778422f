package service

import (
	"errors"
	"fmt"
	"time"
)

// Failure taxonomy returned by the reservation core.  Handlers map these to
// HTTP statuses; calendar and e-mail failures never surface here.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrClosed           = errors.New("the restaurant is closed at the selected time")
	ErrNotFound         = errors.New("not found")
	ErrCapacityExceeded = errors.New("there are no tables available at the selected time")
	ErrConflict         = errors.New("already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInternal         = errors.New("internal error")
)

// RateLimitedError reports a locked-out caller and how long the lock lasts.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry after %s", e.RetryAfter.Round(time.Second))
}

// InvalidInputf wraps ErrInvalidInput with a client-facing detail.
func InvalidInputf(format string, args ...any) error {
	return invalid(format, args...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
