package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/utils"
)

type memAdminUsers struct {
	mu    sync.Mutex
	users map[string]model.AdminUser
	err   error
}

func newMemAdminUsers() *memAdminUsers {
	return &memAdminUsers{users: map[string]model.AdminUser{}}
}

func (m *memAdminUsers) GetByUsername(_ context.Context, username string) (model.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.AdminUser{}, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return model.AdminUser{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memAdminUsers) Create(_ context.Context, username, password, slug string, cost int) (model.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return model.AdminUser{}, repository.ErrDuplicate
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.AdminUser{}, err
	}
	u := model.AdminUser{ID: uint64(len(m.users) + 1), Username: username, PasswordHash: hash, RestaurantSlug: slug}
	m.users[username] = u
	return u, nil
}

var authKeys = utils.TokenKeys{Current: "secret", Version: "1"}

func TestLoginAdminUser(t *testing.T) {
	users := newMemAdminUsers()
	_, err := users.Create(context.Background(), "ana", "correct horse", "bistro", bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewAuthService(users, FallbackAdmin{}, authKeys, time.Hour)

	tok, admin, err := svc.Login(context.Background(), LoginInput{Username: " ana ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, model.Admin{Username: "ana", RestaurantSlug: "bistro"}, admin)

	parsed, err := utils.ParseAdminToken(authKeys, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "bistro", parsed.RestaurantSlug)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, time.Minute)

	_, _, err = svc.Login(context.Background(), LoginInput{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginFallbackAdmin(t *testing.T) {
	hash, err := utils.HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	users := newMemAdminUsers()
	users.err = errors.New("table missing")

	svc := NewAuthService(users, FallbackAdmin{Username: "admin", PasswordHash: hash, RestaurantSlug: "default"}, authKeys, 0)
	_, admin, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "hunter22"})
	require.NoError(t, err, "store failures fall through to the env admin")
	assert.Equal(t, "default", admin.RestaurantSlug)

	_, _, err = svc.Login(context.Background(), LoginInput{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.Login(context.Background(), LoginInput{Username: "root", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginPlaintextFallback(t *testing.T) {
	svc := NewAuthService(nil, FallbackAdmin{Username: "admin", Password: "dev"}, authKeys, 0)
	_, _, err := svc.Login(context.Background(), LoginInput{Username: "admin", Password: "dev"})
	require.NoError(t, err)

	svc.Fallback.Password = ""
	_, _, err = svc.Login(context.Background(), LoginInput{Username: "admin", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidInput, "an empty password never matches")
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc := NewAuthService(nil, FallbackAdmin{}, authKeys, 0)
	_, _, err := svc.Login(context.Background(), LoginInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
