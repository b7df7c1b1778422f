package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/ratelimit"
)

// RegisterAuth registers admin session routes.  Login shares the lockout
// limiter under its own key scope.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter ratelimit.Limiter) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login, middleware.Lockout(limiter, "login", middleware.LoginFailures))
	g.GET("/logout", a.Logout)
	g.POST("/logout", a.Logout)
}

// RegisterAdmin registers admin-only routes.  Analytics needs any admin;
// creating restaurants and admin accounts needs the management secret or
// an admin not bound to a restaurant.
func RegisterAdmin(e *echo.Echo, r *handler.ReservationHandler, rest *handler.RestaurantHandler) {
	e.GET("/api/analytics", r.Analytics, middleware.RequireAdmin())

	mgmt := e.Group("/api/admin", middleware.RequireManagement())
	mgmt.POST("/restaurants", rest.Create)
	mgmt.POST("/admin-users", rest.CreateAdminUser)
}
