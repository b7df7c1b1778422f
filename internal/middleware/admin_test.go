package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
	"github.com/iliyamo/table-reservation/internal/utils"
)

var testKeys = utils.TokenKeys{Current: "cur", Previous: "prev", Version: "1"}

// runIdentity sends req through AdminIdentity and returns what it resolved.
func runIdentity(t *testing.T, req *http.Request, secret string) *model.Admin {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())
	var got *model.Admin
	h := AdminIdentity(testKeys, secret)(func(c echo.Context) error {
		got = AdminFrom(c)
		return nil
	})
	require.NoError(t, h(c))
	return got
}

func token(t *testing.T, keys utils.TokenKeys, slug string) string {
	t.Helper()
	tok, err := utils.NewAdminToken(keys, model.Admin{Username: "ana", RestaurantSlug: slug}, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

func TestAdminIdentityGuest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, runIdentity(t, req, "mgmt"))
}

func TestAdminIdentityCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookie, Value: token(t, testKeys, "bistro")})

	admin := runIdentity(t, req, "")
	require.NotNil(t, admin)
	assert.Equal(t, "ana", admin.Username)
	assert.Equal(t, "bistro", admin.RestaurantSlug)
}

func TestAdminIdentityBearerWithPreviousSecret(t *testing.T) {
	old := utils.TokenKeys{Current: "prev", Version: "1"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, old, "bistro"))

	admin := runIdentity(t, req, "")
	require.NotNil(t, admin)
	assert.Equal(t, "bistro", admin.RestaurantSlug)
}

func TestAdminIdentityRejectsStaleVersion(t *testing.T) {
	stale := utils.TokenKeys{Current: "cur", Version: "0"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookie, Value: token(t, stale, "bistro")})
	assert.Nil(t, runIdentity(t, req, ""))
}

func TestAdminIdentityManagementSecretWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(AdminSecretHeader, "mgmt")
	req.AddCookie(&http.Cookie{Name: AdminCookie, Value: token(t, testKeys, "bistro")})

	admin := runIdentity(t, req, "mgmt")
	require.NotNil(t, admin)
	assert.Equal(t, ManagementUsername, admin.Username)
	assert.Empty(t, admin.RestaurantSlug)

	req.Header.Set(AdminSecretHeader, "wrong")
	admin = runIdentity(t, req, "mgmt")
	require.NotNil(t, admin, "falls through to the cookie")
	assert.Equal(t, "bistro", admin.RestaurantSlug)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.ErrorIs(t, RequireAdmin()(ok)(c), service.ErrUnauthorized)

	c.Set(adminKey, &model.Admin{Username: "ana", RestaurantSlug: "bistro"})
	assert.NoError(t, RequireAdmin()(ok)(c))
	assert.ErrorIs(t, RequireManagement()(ok)(c), service.ErrUnauthorized)

	c.Set(adminKey, &model.Admin{Username: ManagementUsername})
	assert.NoError(t, RequireManagement()(ok)(c))
}
