package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// RestaurantRegistry is the restaurant persistence used by management.
type RestaurantRegistry interface {
	RestaurantStore
	Create(ctx context.Context, r *model.Restaurant) error
	Exists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]model.Restaurant, error)
}

// RestaurantInput creates a restaurant.
type RestaurantInput struct {
	Slug    string  `json:"slug" validate:"required,max=64,slug"`
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,phone"`
}

// AdminUserInput creates an admin bound to a restaurant.
type AdminUserInput struct {
	Username       string `json:"username" validate:"required,min=3,max=64"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	RestaurantSlug string `json:"restaurant_slug" validate:"required,max=64"`
}

// ManagementService creates restaurants and admin accounts.
type ManagementService struct {
	Restaurants RestaurantRegistry
	Users       AdminUserStore
	BcryptCost  int
}

func NewManagementService(restaurants RestaurantRegistry, users AdminUserStore, bcryptCost int) *ManagementService {
	return &ManagementService{Restaurants: restaurants, Users: users, BcryptCost: bcryptCost}
}

// CreateRestaurant stores a new restaurant.  A taken slug is ErrConflict.
func (m *ManagementService) CreateRestaurant(ctx context.Context, in RestaurantInput) (model.Restaurant, error) {
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Name = strings.TrimSpace(in.Name)
	if err := CheckStruct(in); err != nil {
		return model.Restaurant{}, err
	}
	rest := model.Restaurant{Slug: in.Slug, Name: in.Name, Address: trimmed(in.Address), Phone: trimmed(in.Phone)}
	if err := m.Restaurants.Create(ctx, &rest); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Restaurant{}, ErrConflict
		}
		return model.Restaurant{}, internal("create restaurant", err)
	}
	return rest, nil
}

// CreateAdminUser stores an admin bound to an existing restaurant.
func (m *ManagementService) CreateAdminUser(ctx context.Context, in AdminUserInput) (model.AdminUser, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.RestaurantSlug = strings.ToLower(strings.TrimSpace(in.RestaurantSlug))
	if err := CheckStruct(in); err != nil {
		return model.AdminUser{}, err
	}
	ok, err := m.Restaurants.Exists(ctx, in.RestaurantSlug)
	if err != nil {
		return model.AdminUser{}, internal("check restaurant", err)
	}
	if !ok {
		return model.AdminUser{}, ErrNotFound
	}
	u, err := m.Users.Create(ctx, in.Username, in.Password, in.RestaurantSlug, m.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.AdminUser{}, ErrConflict
		}
		return model.AdminUser{}, internal("create admin user", err)
	}
	return u, nil
}

// ListRestaurants lists every restaurant by name.
func (m *ManagementService) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	out, err := m.Restaurants.List(ctx)
	if err != nil {
		return nil, internal("list restaurants", err)
	}
	return out, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
