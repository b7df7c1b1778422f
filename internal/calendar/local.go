package calendar

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Local stands in for a real calendar during development.  It logs every
// call and hands out random event ids.
type Local struct{}

func (Local) Create(_ context.Context, d Details) (string, error) {
	id := uuid.NewString()
	log.Printf("calendar: local create %s for %s %s %s", id, d.ReservationCode, d.Date, d.Time)
	return id, nil
}

func (Local) Update(_ context.Context, eventID string, d Details) error {
	log.Printf("calendar: local update %s for %s %s %s", eventID, d.ReservationCode, d.Date, d.Time)
	return nil
}

func (Local) Cancel(_ context.Context, eventID string) error {
	log.Printf("calendar: local cancel %s", eventID)
	return nil
}

// Unconfigured fails every call.  It is used when the Google provider was
// requested without credentials, so reservations are flagged with an error
// status instead of silently skipping the calendar.
type Unconfigured struct{}

func (Unconfigured) Create(context.Context, Details) (string, error) { return "", ErrNotConfigured }

func (Unconfigured) Update(context.Context, string, Details) error { return ErrNotConfigured }

func (Unconfigured) Cancel(context.Context, string) error { return ErrNotConfigured }
