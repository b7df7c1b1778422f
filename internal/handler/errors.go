package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/service"
)

// ErrorHandler is installed as echo's HTTPErrorHandler.  Service errors
// become {"message": ...} bodies with the matching status; internal detail
// is logged, never returned.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	var rl *service.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 && c.Response().Header().Get("Retry-After") == "" {
		c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, echo.Map{"message": msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func statusOf(err error) (int, string) {
	var rl *service.RateLimitedError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &rl):
		return http.StatusTooManyRequests, "Too many attempts. Please wait and try again."
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, inputMessage(err)
	case errors.Is(err, service.ErrClosed):
		return http.StatusBadRequest, "We're sorry, the restaurant is closed at the selected time."
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, service.ErrCapacityExceeded):
		return http.StatusConflict, "We're sorry, there are no tables available at the selected time."
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "Already exists."
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized."
	case errors.As(err, &he):
		if m, ok := he.Message.(string); ok {
			return he.Code, m
		}
		return he.Code, http.StatusText(he.Code)
	default:
		return http.StatusInternalServerError, "An unexpected error occurred."
	}
}

// inputMessage strips the sentinel prefix so clients see only the detail.
func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
	if msg == "" || msg == service.ErrInvalidInput.Error() {
		return "Invalid input."
	}
	return "Invalid input: " + msg
}

// bind decodes the request body; decoding failures are invalid input.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return service.InvalidInputf("invalid request body")
	}
	return nil
}
