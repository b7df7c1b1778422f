package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/service"
)

// AuthHandler opens and closes admin sessions.
type AuthHandler struct {
	Auth *service.AuthService
	// SecureCookie marks the session cookie Secure; set in production.
	SecureCookie bool
}

func NewAuthHandler(a *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{Auth: a, SecureCookie: secureCookie}
}

// Login verifies credentials and sets the admin_auth cookie.  The token is
// also returned in the body for API clients using Bearer auth.
func (h *AuthHandler) Login(c echo.Context) error {
	var in service.LoginInput
	if err := bind(c, &in); err != nil {
		return err
	}
	tok, admin, err := h.Auth.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(time.Until(tok.Exp).Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "ok",
		"token":      tok.Token,
		"expires":    tok.Exp,
		"restaurant": admin.RestaurantSlug,
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
