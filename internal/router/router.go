package router // package router defines how HTTP routes are registered for the API

import (
	"net"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// New returns an Echo instance with the shared error mapping, validator
// and request middleware installed.  Every request resolves the caller's
// admin identity; routes decide whether one is required.  trusted lists
// the proxies whose X-Forwarded-For is believed.
func New(keys utils.TokenKeys, managementSecret string, trusted []*net.IPNet) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = IPExtractor(trusted)
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = middleware.NewValidator()

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("64K"))
	e.Use(middleware.AdminIdentity(keys, managementSecret))
	return e
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// IPExtractor decides the client IP used for lockout and throttle keys.
// Without trusted proxies the TCP peer is the client and forwarding
// headers are ignored, so a caller cannot pick its own key.
func IPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
