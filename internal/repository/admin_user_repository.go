package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// AdminUserRepo reads and writes the admin_users table.
type AdminUserRepo struct{ DB *sql.DB }

func NewAdminUserRepo(db *sql.DB) *AdminUserRepo { return &AdminUserRepo{DB: db} }

// Create hashes the password with the given bcrypt cost and inserts the
// admin.  Usernames are stored trimmed; a taken username yields
// ErrDuplicate.
func (r *AdminUserRepo) Create(ctx context.Context, username, password, restaurantSlug string, cost int) (model.AdminUser, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.AdminUser{}, err
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admin_users (username, password_hash, restaurant_slug, created_at) VALUES (?,?,?,?)",
		username, hash, restaurantSlug, now)
	if err != nil {
		if isDuplicate(err) {
			return model.AdminUser{}, ErrDuplicate
		}
		return model.AdminUser{}, fmt.Errorf("insert admin user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AdminUser{}, err
	}
	return model.AdminUser{
		ID:             uint64(id),
		Username:       username,
		PasswordHash:   hash,
		RestaurantSlug: restaurantSlug,
		CreatedAt:      now,
	}, nil
}

// GetByUsername fetches an admin by username.
func (r *AdminUserRepo) GetByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	var u model.AdminUser
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,restaurant_slug,created_at FROM admin_users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.RestaurantSlug, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AdminUser{}, ErrNotFound
		}
		return model.AdminUser{}, fmt.Errorf("get admin user: %w", err)
	}
	return u, nil
}
