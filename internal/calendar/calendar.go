// Package calendar mirrors reservations into an external calendar.  The
// reservation record is the source of truth; everything here is best effort
// and reports its outcome instead of failing the caller.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/schedule"
)

// EventDuration is the fixed length of a reservation event.
const EventDuration = time.Hour

// ErrNotConfigured is returned by providers that lack credentials.
var ErrNotConfigured = errors.New("calendar provider not configured")

// Details is what a provider needs to render a reservation event.
type Details struct {
	Name            string
	Email           string
	Phone           string
	Guests          int
	Date            string // YYYY-MM-DD
	Time            string // HH:MM
	ReservationCode string
}

// DetailsOf extracts the event details of a stored reservation.
func DetailsOf(r model.Reservation) Details {
	return Details{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Guests:          r.Guests,
		Date:            r.Date,
		Time:            r.Time,
		ReservationCode: r.Code,
	}
}

// Provider creates, updates and cancels external events.  Any call may fail.
type Provider interface {
	Create(ctx context.Context, d Details) (eventID string, err error)
	Update(ctx context.Context, eventID string, d Details) error
	Cancel(ctx context.Context, eventID string) error
}

// Summary is the event title.
func (d Details) Summary() string {
	return fmt.Sprintf("Reservation: %s (%d guests)", d.Name, d.Guests)
}

// Description is the event body shown to staff.
func (d Details) Description() string {
	code := d.ReservationCode
	if code == "" {
		code = "N/A"
	}
	return fmt.Sprintf("Reservation ID: %s\nReservation for %d guest(s) made by %s (%s).\nPhone: %s",
		code, d.Guests, d.Name, d.Email, d.Phone)
}

// Window returns the event's start and end in loc.  A nil loc means UTC.
func (d Details) Window(loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(schedule.DateLayout+" "+schedule.TimeLayout, d.Date+" "+d.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("event window: %w", err)
	}
	return start, start.Add(EventDuration), nil
}
