package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/ratelimit"
	"github.com/iliyamo/table-reservation/internal/service"
)

// FailurePolicy decides whether a handler error counts as a failed attempt.
type FailurePolicy func(err error) bool

// ReservationFailures penalises malformed submissions and server failures.
// A full or closed slot is an honest miss and is not counted.
func ReservationFailures(err error) bool {
	return errors.Is(err, service.ErrInvalidInput) || errors.Is(err, service.ErrInternal)
}

// LoginFailures counts rejected credentials and malformed login bodies.
func LoginFailures(err error) bool {
	return errors.Is(err, service.ErrUnauthorized) || errors.Is(err, service.ErrInvalidInput)
}

// Lockout guards a route with the failed-attempt limiter.  The key is
// scope plus the client IP.  A locked key is refused with
// *service.RateLimitedError before the handler runs; afterwards the
// handler's error is classified by counts and recorded as a failure, and a
// successful response clears the key.  Limiter errors are logged and let
// the request through.
func Lockout(l ratelimit.Limiter, scope string, counts FailurePolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := LockoutKey(scope, c)
			ctx := c.Request().Context()

			res, err := l.Check(ctx, key)
			if err != nil {
				c.Logger().Warnf("lockout: check %s: %v", key, err)
			} else if res.Locked {
				setRetryAfter(c, res.RetryAfter)
				return &service.RateLimitedError{RetryAfter: res.RetryAfter}
			}

			herr := next(c)
			switch {
			case herr != nil && counts(herr):
				res, err := l.Fail(ctx, key)
				if err != nil {
					c.Logger().Warnf("lockout: fail %s: %v", key, err)
				} else if res.Locked {
					setRetryAfter(c, res.RetryAfter)
				}
			case herr == nil && c.Response().Status < http.StatusBadRequest:
				if err := l.Success(ctx, key); err != nil {
					c.Logger().Warnf("lockout: success %s: %v", key, err)
				}
			}
			return herr
		}
	}
}

// LockoutKey is scope:ip.
func LockoutKey(scope string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return scope + ":" + ip
}

func setRetryAfter(c echo.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	secs := int(math.Ceil(d.Seconds()))
	c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
}
