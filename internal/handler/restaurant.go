package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
)

// RestaurantsPath is the public restaurant list; its cached responses are
// dropped whenever a restaurant is created.
const RestaurantsPath = "/api/restaurants"

// RestaurantHandler serves the public restaurant list and the management
// endpoints.
type RestaurantHandler struct {
	Mgmt  *service.ManagementService
	Cache *middleware.ResponseCache
}

func NewRestaurantHandler(m *service.ManagementService, cache *middleware.ResponseCache) *RestaurantHandler {
	return &RestaurantHandler{Mgmt: m, Cache: cache}
}

type restaurantView struct {
	Slug    string  `json:"slug"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

func viewRestaurant(r model.Restaurant) restaurantView {
	return restaurantView{Slug: r.Slug, Name: r.Name, Address: r.Address, Phone: r.Phone}
}

// List returns every restaurant.
func (h *RestaurantHandler) List(c echo.Context) error {
	list, err := h.Mgmt.ListRestaurants(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]restaurantView, 0, len(list))
	for _, r := range list {
		out = append(out, viewRestaurant(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurants": out})
}

// Create registers a restaurant.
func (h *RestaurantHandler) Create(c echo.Context) error {
	var in service.RestaurantInput
	if err := bind(c, &in); err != nil {
		return err
	}
	rest, err := h.Mgmt.CreateRestaurant(c.Request().Context(), in)
	if err != nil {
		return err
	}
	h.Cache.Invalidate(c.Request().Context(), RestaurantsPath)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Restaurant created", "restaurant": viewRestaurant(rest)})
}

// CreateAdminUser registers an admin bound to a restaurant.
func (h *RestaurantHandler) CreateAdminUser(c echo.Context) error {
	var in service.AdminUserInput
	if err := bind(c, &in); err != nil {
		return err
	}
	u, err := h.Mgmt.CreateAdminUser(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Admin user created",
		"user":    echo.Map{"username": u.Username, "restaurant_slug": u.RestaurantSlug},
	})
}
