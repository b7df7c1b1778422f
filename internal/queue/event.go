// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Queue names.  Messages go through the default exchange, so the routing
// key is the queue name.
const (
	ConfirmedQueue = "reservation.confirmed"
	ReminderQueue  = "reservation.reminder"
)

// EventType distinguishes the mails a ReservationEvent asks for.
type EventType string

const (
	EventConfirmed EventType = "confirmed"
	EventReminder  EventType = "reminder"
)

// Queue returns the queue events of this type are published to.
func (t EventType) Queue() string {
	if t == EventReminder {
		return ReminderQueue
	}
	return ConfirmedQueue
}

// ReservationEvent carries everything a mail worker needs to write to the
// guest without querying the primary database, including the restaurant
// branding.
type ReservationEvent struct {
	Type              EventType `json:"type"`
	ReservationID     uint64    `json:"reservation_id"`
	ReservationCode   string    `json:"reservation_code"`
	GuestName         string    `json:"guest_name"`
	GuestEmail        string    `json:"guest_email"`
	Guests            int       `json:"guests"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	RestaurantSlug    string    `json:"restaurant_slug"`
	RestaurantName    string    `json:"restaurant_name"`
	RestaurantAddress string    `json:"restaurant_address,omitempty"`
	RestaurantPhone   string    `json:"restaurant_phone,omitempty"`
	OccurredAt        string    `json:"occurred_at"`
}

// NewReservationEvent builds an event of type t for a stored reservation.
func NewReservationEvent(t EventType, r model.Reservation, rest model.Restaurant, at time.Time) ReservationEvent {
	ev := ReservationEvent{
		Type:            t,
		ReservationID:   r.ID,
		ReservationCode: r.Code,
		GuestName:       r.Name,
		GuestEmail:      r.Email,
		Guests:          r.Guests,
		Date:            r.Date,
		Time:            r.Time,
		RestaurantSlug:  r.RestaurantSlug,
		RestaurantName:  rest.Name,
		OccurredAt:      at.UTC().Format(time.RFC3339),
	}
	if ev.RestaurantName == "" {
		ev.RestaurantName = r.RestaurantSlug
	}
	if rest.Address != nil {
		ev.RestaurantAddress = *rest.Address
	}
	if rest.Phone != nil {
		ev.RestaurantPhone = *rest.Phone
	}
	return ev
}
