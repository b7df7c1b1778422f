package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// RestaurantRepo reads and writes the restaurants table.
type RestaurantRepo struct{ DB *sql.DB }

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{DB: db} }

// Create inserts a restaurant.  The slug is lower-cased and trimmed before
// insertion; a taken slug yields ErrDuplicate.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	rest.Slug = strings.ToLower(strings.TrimSpace(rest.Slug))
	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO restaurants (slug, name, address, phone, created_at) VALUES (?,?,?,?,?)",
		rest.Slug, rest.Name, nullString(rest.Address), nullString(rest.Phone), now)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}
	rest.CreatedAt = now
	return nil
}

// GetBySlug fetches a restaurant by slug.
func (r *RestaurantRepo) GetBySlug(ctx context.Context, slug string) (model.Restaurant, error) {
	var (
		rest           model.Restaurant
		address, phone sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT slug,name,address,phone,created_at FROM restaurants WHERE slug=? LIMIT 1",
		slug).Scan(&rest.Slug, &rest.Name, &address, &phone, &rest.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Restaurant{}, ErrNotFound
		}
		return model.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	rest.Address = stringPtr(address)
	rest.Phone = stringPtr(phone)
	return rest, nil
}

// Exists reports whether a restaurant with the slug is registered.
func (r *RestaurantRepo) Exists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM restaurants WHERE slug=? LIMIT 1", slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restaurant exists: %w", err)
	}
	return true, nil
}

// List returns every restaurant ordered by name.
func (r *RestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT slug,name,address,phone,created_at FROM restaurants ORDER BY name ASC, slug ASC")
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()
	out := make([]model.Restaurant, 0)
	for rows.Next() {
		var (
			rest           model.Restaurant
			address, phone sql.NullString
		)
		if err := rows.Scan(&rest.Slug, &rest.Name, &address, &phone, &rest.CreatedAt); err != nil {
			return nil, err
		}
		rest.Address = stringPtr(address)
		rest.Phone = stringPtr(phone)
		out = append(out, rest)
	}
	return out, rows.Err()
}
