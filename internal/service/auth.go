package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// AdminUserStore reads and writes admin accounts.
type AdminUserStore interface {
	GetByUsername(ctx context.Context, username string) (model.AdminUser, error)
	Create(ctx context.Context, username, password, restaurantSlug string, cost int) (model.AdminUser, error)
}

// FallbackAdmin is the single admin configured through the environment.
// PasswordHash wins over Password; Password is only honoured outside
// production and is cleared by the config loader there.
type FallbackAdmin struct {
	Username       string
	PasswordHash   string
	Password       string
	RestaurantSlug string
}

func (f FallbackAdmin) verify(username, password string) bool {
	if f.Username == "" || username != f.Username {
		return false
	}
	if f.PasswordHash != "" {
		return utils.VerifyPassword(f.PasswordHash, password)
	}
	return f.Password != "" && password == f.Password
}

// LoginInput is the admin login body.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// AuthService issues admin session tokens.
type AuthService struct {
	Users    AdminUserStore
	Fallback FallbackAdmin
	Keys     utils.TokenKeys
	TTL      time.Duration
}

func NewAuthService(users AdminUserStore, fallback FallbackAdmin, keys utils.TokenKeys, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Fallback: fallback, Keys: keys, TTL: ttl}
}

// Login checks the admin_users table first and then the fallback admin.
// Every credential mismatch is ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (utils.AccessToken, model.Admin, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := CheckStruct(in); err != nil {
		return utils.AccessToken{}, model.Admin{}, err
	}

	admin, ok := s.lookup(ctx, in)
	if !ok && s.Fallback.verify(in.Username, in.Password) {
		admin, ok = model.Admin{Username: in.Username, RestaurantSlug: s.Fallback.RestaurantSlug}, true
	}
	if !ok {
		return utils.AccessToken{}, model.Admin{}, ErrUnauthorized
	}

	tok, err := utils.NewAdminToken(s.Keys, admin, s.TTL)
	if err != nil {
		return utils.AccessToken{}, model.Admin{}, internal("sign admin token", err)
	}
	return tok, admin, nil
}

func (s *AuthService) lookup(ctx context.Context, in LoginInput) (model.Admin, bool) {
	if s.Users == nil {
		return model.Admin{}, false
	}
	u, err := s.Users.GetByUsername(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("auth: admin lookup failed, trying fallback: %v", err)
		}
		return model.Admin{}, false
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return model.Admin{}, false
	}
	return model.Admin{Username: u.Username, RestaurantSlug: u.RestaurantSlug}, true
}
