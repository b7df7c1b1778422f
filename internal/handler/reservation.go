package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
)

// ReservationHandler serves the guest booking flow and the admin listing.
type ReservationHandler struct {
	Svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Svc: svc}
}

// ----- DTOs -----

type reservationResp struct {
	Message     string                `json:"message,omitempty"`
	Reservation model.ReservationView `json:"reservation"`
}

type updateReq struct {
	ReservationCode string `json:"reservationCode"`
	service.UpdateInput
}

type cancelReq struct {
	ReservationCode string `json:"reservationCode" query:"code"`
}

// Create books a table.  An admin session binds the booking to the
// admin's restaurant.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.CreateInput
	if err := bind(c, &in); err != nil {
		return err
	}
	res, err := h.Svc.Create(c.Request().Context(), in, middleware.AdminFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reservationResp{Message: "Reservation successful!", Reservation: res.View()})
}

// Get answers two questions on one path: with ?date= it returns the
// fully booked hours of that day, otherwise it lists reservations for an
// admin.
func (h *ReservationHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	slug := strings.ToLower(strings.TrimSpace(c.QueryParam("restaurant")))
	if date := strings.TrimSpace(c.QueryParam("date")); date != "" {
		av, err := h.Svc.Availability(ctx, slug, date)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, av)
	}

	admin := middleware.AdminFrom(c)
	if admin == nil {
		return service.ErrUnauthorized
	}
	if admin.RestaurantSlug != "" {
		slug = admin.RestaurantSlug
	}
	list, err := h.Svc.List(ctx, slug)
	if err != nil {
		return err
	}
	views := make([]model.ReservationView, 0, len(list))
	for _, r := range list {
		views = append(views, r.View())
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": views})
}

// Lookup returns the reservation behind ?code= with its upcoming/past status.
func (h *ReservationHandler) Lookup(c echo.Context) error {
	res, status, err := h.Svc.Lookup(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return err
	}
	v := res.View()
	v.Status = status
	return c.JSON(http.StatusOK, reservationResp{Reservation: v})
}

// Update changes date, time, party size, phone or restaurant.
func (h *ReservationHandler) Update(c echo.Context) error {
	var req updateReq
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.Update(c.Request().Context(), req.ReservationCode, req.UpdateInput)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservationResp{Message: "Reservation updated.", Reservation: res.View()})
}

// Cancel deletes a reservation.  The code comes from the JSON body or ?code=.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	var req cancelReq
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	if req.ReservationCode == "" {
		req.ReservationCode = c.QueryParam("code")
	}
	if err := h.Svc.Cancel(c.Request().Context(), req.ReservationCode); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation cancelled."})
}

// Analytics returns the 90-day dashboard.  Admins bound to a restaurant
// only see their own; others may pick one with ?restaurant= or see all.
func (h *ReservationHandler) Analytics(c echo.Context) error {
	admin := middleware.AdminFrom(c)
	slug := strings.ToLower(strings.TrimSpace(c.QueryParam("restaurant")))
	if admin != nil && admin.RestaurantSlug != "" {
		slug = admin.RestaurantSlug
	}
	out, err := h.Svc.Analytics(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
