package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const (
	// AdminCookie carries the admin session token.
	AdminCookie = "admin_auth"
	// AdminSecretHeader carries the management secret.
	AdminSecretHeader = "X-Admin-Secret"

	adminKey = "admin"
)

// ManagementUsername identifies callers authorised by the management secret.
// They are not bound to a restaurant.
const ManagementUsername = "management"

// AdminIdentity resolves the caller's admin identity and stores it in the
// context.  The management secret is tried first, then the session cookie,
// then a Bearer token.  Requests without a valid credential continue as
// guests; use RequireAdmin to reject them.
func AdminIdentity(keys utils.TokenKeys, managementSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if admin := resolveAdmin(c, keys, managementSecret); admin != nil {
				c.Set(adminKey, admin)
			}
			return next(c)
		}
	}
}

func resolveAdmin(c echo.Context, keys utils.TokenKeys, managementSecret string) *model.Admin {
	if managementSecret != "" {
		got := c.Request().Header.Get(AdminSecretHeader)
		if got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(managementSecret)) == 1 {
			return &model.Admin{Username: ManagementUsername}
		}
	}
	if ck, err := c.Cookie(AdminCookie); err == nil && ck.Value != "" {
		if admin, err := utils.ParseAdminToken(keys, ck.Value); err == nil {
			return admin
		}
	}
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if admin, err := utils.ParseAdminToken(keys, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			return admin
		}
	}
	return nil
}

// RequireAdmin aborts with 401 unless AdminIdentity found an admin.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if AdminFrom(c) == nil {
				return service.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// RequireManagement accepts the management secret or an admin session that
// is not bound to a restaurant.
func RequireManagement() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin := AdminFrom(c)
			if admin == nil || admin.RestaurantSlug != "" {
				return service.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// AdminFrom returns the admin stored by AdminIdentity, or nil for guests.
func AdminFrom(c echo.Context) *model.Admin {
	admin, _ := c.Get(adminKey).(*model.Admin)
	return admin
}
