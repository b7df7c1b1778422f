package queue

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func sampleReservation(guests int, slug string) model.Reservation {
	return model.Reservation{
		ID:             7,
		Code:           "ABC234",
		Name:           "Ana Berzina",
		Email:          "ana@example.com",
		Phone:          "+37120000000",
		Guests:         guests,
		Date:           "2025-01-07",
		Time:           "19:00",
		RestaurantSlug: slug,
	}
}

func TestRenderConfirmation(t *testing.T) {
	addr, phone := "1 Main St", "+371 6000 0000"
	rest := model.Restaurant{Slug: "default", Name: "Default Diner", Address: &addr, Phone: &phone}
	ev := NewReservationEvent(EventConfirmed, sampleReservation(4, "default"), rest, time.Now())

	m, err := Render(ev)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", m.To)
	assert.Equal(t, "Your reservation at Default Diner is confirmed (ABC234)", m.Subject)

	g := goldie.New(t)
	g.Assert(t, "confirmation", []byte(m.Body))
}

func TestRenderReminder(t *testing.T) {
	rest := model.Restaurant{Slug: "bistro", Name: "Bistro"}
	ev := NewReservationEvent(EventReminder, sampleReservation(2, "bistro"), rest, time.Now())

	m, err := Render(ev)
	require.NoError(t, err)
	assert.Equal(t, "Reminder: your reservation at Bistro on 2025-01-07 at 19:00", m.Subject)

	g := goldie.New(t)
	g.Assert(t, "reminder", []byte(m.Body))
}

func TestNewReservationEvent(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.FixedZone("x", 2*3600))
	ev := NewReservationEvent(EventConfirmed, sampleReservation(3, "nameless"), model.Restaurant{}, at)

	assert.Equal(t, "nameless", ev.RestaurantName, "falls back to the slug")
	assert.Empty(t, ev.RestaurantAddress)
	assert.Equal(t, "2025-01-01T10:00:00Z", ev.OccurredAt)
	assert.Equal(t, uint64(7), ev.ReservationID)
	assert.Equal(t, ConfirmedQueue, ev.Type.Queue())
	assert.Equal(t, ReminderQueue, EventReminder.Queue())
}
