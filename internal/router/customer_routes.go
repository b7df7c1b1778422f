package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/ratelimit"
)

// RegisterReservations registers the guest booking flow.  Creating a
// reservation sits behind the failed-attempt lockout; the guest's
// reservation code is the only credential for the my-reservation routes,
// so those share the throttle.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, limiter ratelimit.Limiter, throttle echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.POST("/reservations", h.Create, middleware.Lockout(limiter, "reservation", middleware.ReservationFailures))
	// ?date= is public availability; without it the handler demands an admin.
	g.GET("/reservations", h.Get)

	mine := g.Group("/my-reservation", throttle)
	mine.GET("", h.Lookup)
	mine.PUT("", h.Update)
	mine.DELETE("", h.Cancel)
}

// RegisterPublic registers unauthenticated browse endpoints.  The
// restaurant list is served through the response cache.
func RegisterPublic(e *echo.Echo, h *handler.RestaurantHandler, cache *middleware.ResponseCache) {
	e.GET(handler.RestaurantsPath, h.List, cache.Middleware())
}
