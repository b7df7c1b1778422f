package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

type memRegistry struct {
	memRestaurants
	err error
}

func (m *memRegistry) Create(_ context.Context, r *model.Restaurant) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.memRestaurants[r.Slug]; ok {
		return repository.ErrDuplicate
	}
	m.memRestaurants[r.Slug] = *r
	return nil
}

func (m *memRegistry) Exists(_ context.Context, slug string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.memRestaurants[slug]
	return ok, nil
}

func (m *memRegistry) List(context.Context) ([]model.Restaurant, error) {
	out := make([]model.Restaurant, 0, len(m.memRestaurants))
	for _, r := range m.memRestaurants {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func newManagement() (*ManagementService, *memRegistry) {
	reg := &memRegistry{memRestaurants: memRestaurants{"default": {Slug: "default", Name: "Default Diner"}}}
	return NewManagementService(reg, newMemAdminUsers(), bcrypt.MinCost), reg
}

func TestCreateRestaurant(t *testing.T) {
	m, reg := newManagement()
	addr := "  2 Harbour Rd "
	blank := " "

	rest, err := m.CreateRestaurant(context.Background(), RestaurantInput{Slug: " Sea-View ", Name: " Sea View ", Address: &addr, Phone: &blank})
	require.NoError(t, err)
	assert.Equal(t, "sea-view", rest.Slug)
	assert.Equal(t, "Sea View", rest.Name)
	require.NotNil(t, rest.Address)
	assert.Equal(t, "2 Harbour Rd", *rest.Address)
	assert.Nil(t, rest.Phone)
	assert.Contains(t, reg.memRestaurants, "sea-view")

	_, err = m.CreateRestaurant(context.Background(), RestaurantInput{Slug: "sea-view", Name: "Again"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = m.CreateRestaurant(context.Background(), RestaurantInput{Slug: "bad slug!", Name: "X"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	reg.err = errors.New("db down")
	_, err = m.CreateRestaurant(context.Background(), RestaurantInput{Slug: "other", Name: "Other"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestCreateAdminUser(t *testing.T) {
	m, _ := newManagement()

	u, err := m.CreateAdminUser(context.Background(), AdminUserInput{Username: "chef", Password: "longenough", RestaurantSlug: "Default"})
	require.NoError(t, err)
	assert.Equal(t, "default", u.RestaurantSlug)
	assert.NotEqual(t, "longenough", u.PasswordHash)

	_, err = m.CreateAdminUser(context.Background(), AdminUserInput{Username: "chef", Password: "longenough", RestaurantSlug: "default"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = m.CreateAdminUser(context.Background(), AdminUserInput{Username: "sous", Password: "longenough", RestaurantSlug: "nowhere"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.CreateAdminUser(context.Background(), AdminUserInput{Username: "ab", Password: "longenough", RestaurantSlug: "default"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.CreateAdminUser(context.Background(), AdminUserInput{Username: "abc", Password: "short", RestaurantSlug: "default"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListRestaurants(t *testing.T) {
	m, _ := newManagement()
	_, err := m.CreateRestaurant(context.Background(), RestaurantInput{Slug: "aa", Name: "Aardvark"})
	require.NoError(t, err)

	out, err := m.ListRestaurants(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Aardvark", out[0].Name)
}
