package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/schedule"
)

// ReminderSender delivers reminder mails.
type ReminderSender interface {
	SendReminder(ctx context.Context, r model.Reservation, rest model.Restaurant) error
}

// DueReminders returns reservations starting within the next `within`,
// earliest first.  An empty slug covers every restaurant.
func (s *ReservationService) DueReminders(ctx context.Context, slug string, within time.Duration) ([]model.Reservation, error) {
	loc := s.Policy.Location()
	now := s.Now().In(loc)
	until := now.Add(within)

	rows, err := s.Reservations.ListSince(ctx, slug, now.Format(schedule.DateLayout))
	if err != nil {
		return nil, internal("list upcoming reservations", err)
	}
	out := make([]model.Reservation, 0)
	for _, r := range rows {
		at, err := s.Policy.At(r.Date, r.Time)
		if err != nil {
			continue
		}
		if !at.Before(now) && at.Before(until) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SendReminders mails every due reservation through sender and reports how
// many were sent.  A failed send is logged and does not stop the run.
func (s *ReservationService) SendReminders(ctx context.Context, slug string, within time.Duration, sender ReminderSender) (int, error) {
	due, err := s.DueReminders(ctx, slug, within)
	if err != nil {
		return 0, err
	}
	rests := map[string]model.Restaurant{}
	sent := 0
	for _, r := range due {
		rest, ok := rests[r.RestaurantSlug]
		if !ok {
			rest, err = s.Restaurants.GetBySlug(ctx, r.RestaurantSlug)
			if err != nil {
				log.Printf("reminder: restaurant %s for %s: %v", r.RestaurantSlug, r.Code, err)
				rest = model.Restaurant{Slug: r.RestaurantSlug}
			}
			rests[r.RestaurantSlug] = rest
		}
		if err := sender.SendReminder(ctx, r, rest); err != nil {
			log.Printf("reminder: %s not sent: %v", r.Code, err)
			continue
		}
		sent++
	}
	return sent, nil
}
