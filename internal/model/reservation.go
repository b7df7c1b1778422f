package model

import "time"

// CalendarStatus reports how the external calendar copy of a reservation
// relates to the stored record.  It only ever describes the calendar side;
// a reservation is persisted regardless of its calendar status.
type CalendarStatus string

const (
	CalendarPending CalendarStatus = "Pending" // written, sync not attempted yet
	CalendarSynced  CalendarStatus = "Synced"  // event created or updated
	CalendarError   CalendarStatus = "Error"   // last sync attempt failed
)

// Valid reports whether s is one of the known statuses.
func (s CalendarStatus) Valid() bool {
	switch s {
	case CalendarPending, CalendarSynced, CalendarError:
		return true
	}
	return false
}

// Reservation records a guest's table booking at one restaurant.
//
// Fields:
//  ID              – store-assigned primary key.
//  Code            – 6 character guest-facing tracking code, immutable.
//  Name            – guest name.
//  Email           – guest e-mail used for confirmations.
//  Phone           – guest phone number.
//  Guests          – party size (2..20).
//  Date            – calendar day, YYYY-MM-DD.
//  Time            – start time, HH:MM.
//  RestaurantSlug  – soft reference to restaurants.slug.
//  CalendarStatus  – state of the external calendar copy.
//  CalendarEventID – opaque external event id; nil when none exists.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64         // reservations.id
	Code            string         // reservations.reservation_code
	Name            string         // reservations.name
	Email           string         // reservations.email
	Phone           string         // reservations.phone
	Guests          int            // reservations.guests
	Date            string         // reservations.res_date
	Time            string         // reservations.res_time
	RestaurantSlug  string         // reservations.restaurant_slug
	CalendarStatus  CalendarStatus // reservations.calendar_status
	CalendarEventID *string        // reservations.calendar_event_id (nullable)
	CreatedAt       time.Time      // reservations.created_at
	UpdatedAt       time.Time      // reservations.updated_at
}

// EventID returns the calendar event id or "" when none is stored.
func (r *Reservation) EventID() string {
	if r == nil || r.CalendarEventID == nil {
		return ""
	}
	return *r.CalendarEventID
}

// ReservationView is the boundary shape of a reservation as exchanged with
// clients.  Status is only filled by guest lookups (upcoming or past).
type ReservationView struct {
	ID              uint64         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Guests          int            `json:"guests"`
	Date            string         `json:"date"`
	Time            string         `json:"time"`
	ReservationCode string         `json:"reservationCode"`
	RestaurantSlug  string         `json:"restaurantSlug"`
	CalendarStatus  CalendarStatus `json:"calendarStatus"`
	Status          string         `json:"status,omitempty"`
}

// View maps the stored record to its boundary shape.
func (r Reservation) View() ReservationView {
	return ReservationView{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Guests:          r.Guests,
		Date:            r.Date,
		Time:            r.Time,
		ReservationCode: r.Code,
		RestaurantSlug:  r.RestaurantSlug,
		CalendarStatus:  r.CalendarStatus,
	}
}
