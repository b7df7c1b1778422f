package calendar

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// DefaultTimeout bounds each provider call.
const DefaultTimeout = 10 * time.Second

// Outcome is the result of a create or update attempt.  EventID is set only
// when a new event was created.
type Outcome struct {
	Status  model.CalendarStatus
	EventID *string
}

// Syncer drives a Provider with a per-call timeout and turns failures into
// an Error status.  It never returns an error to the caller.
type Syncer struct {
	Provider Provider
	Timeout  time.Duration
}

func NewSyncer(p Provider, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Syncer{Provider: p, Timeout: timeout}
}

func (s *Syncer) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.Timeout)
}

// Create adds an event for a new reservation.
func (s *Syncer) Create(ctx context.Context, d Details) Outcome {
	cctx, cancel := s.call(ctx)
	defer cancel()
	id, err := s.Provider.Create(cctx, d)
	if err != nil {
		log.Printf("calendar: create for %s failed: %v", d.ReservationCode, err)
		return Outcome{Status: model.CalendarError}
	}
	if id == "" {
		return Outcome{Status: model.CalendarSynced}
	}
	return Outcome{Status: model.CalendarSynced, EventID: &id}
}

// Update moves an existing event, or creates one when the reservation never
// got an event id.
func (s *Syncer) Update(ctx context.Context, eventID string, d Details) Outcome {
	if eventID == "" {
		return s.Create(ctx, d)
	}
	cctx, cancel := s.call(ctx)
	defer cancel()
	if err := s.Provider.Update(cctx, eventID, d); err != nil {
		log.Printf("calendar: update %s for %s failed: %v", eventID, d.ReservationCode, err)
		return Outcome{Status: model.CalendarError}
	}
	return Outcome{Status: model.CalendarSynced}
}

// Cancel removes the event.  Failures are logged and otherwise ignored so a
// guest can always delete their own reservation.
func (s *Syncer) Cancel(ctx context.Context, eventID string) {
	if eventID == "" {
		return
	}
	cctx, cancel := s.call(ctx)
	defer cancel()
	if err := s.Provider.Cancel(cctx, eventID); err != nil {
		log.Printf("calendar: cancel %s failed: %v", eventID, err)
	}
}
