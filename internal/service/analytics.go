package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/schedule"
)

// AnalyticsDays is the length of the analytics window, today included.
const AnalyticsDays = 90

type DayStats struct {
	Date     string `json:"date,omitempty"`
	Bookings int    `json:"bookings"`
	Guests   int    `json:"guests"`
}

type Totals struct {
	Bookings    int `json:"bookings"`
	Guests      int `json:"guests"`
	UniqueUsers int `json:"uniqueUsers"`
}

type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Analytics summarises recent bookings for the admin dashboard.
type Analytics struct {
	Window Window         `json:"window"`
	Daily  []DayStats     `json:"daily"`
	ByHour map[string]int `json:"byHour"`
	Totals Totals         `json:"totals"`
	Today  DayStats       `json:"today"`
}

// Analytics aggregates the last AnalyticsDays days.  Every day in the window
// appears in Daily, zero filled.  Unique users are counted by e-mail,
// ignoring case.
func (s *ReservationService) Analytics(ctx context.Context, slug string) (Analytics, error) {
	loc := s.Policy.Location()
	now := s.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(AnalyticsDays - 1))

	rows, err := s.Reservations.ListSince(ctx, slug, start.Format(schedule.DateLayout))
	if err != nil {
		return Analytics{}, internal("analytics", err)
	}

	daily := make(map[string]*DayStats)
	byHour := make(map[string]int)
	emails := make(map[string]struct{})
	for _, r := range rows {
		d, ok := daily[r.Date]
		if !ok {
			d = &DayStats{Date: r.Date}
			daily[r.Date] = d
		}
		d.Bookings++
		d.Guests += r.Guests
		byHour[schedule.HourBucket(r.Time)]++
		if r.Email != "" {
			emails[strings.ToLower(r.Email)] = struct{}{}
		}
	}

	out := Analytics{
		Window: Window{Start: start.Format(schedule.DateLayout), End: today.Format(schedule.DateLayout)},
		Daily:  make([]DayStats, 0, AnalyticsDays),
		ByHour: byHour,
	}
	for i := 0; i < AnalyticsDays; i++ {
		key := start.AddDate(0, 0, i).Format(schedule.DateLayout)
		day := DayStats{Date: key}
		if d, ok := daily[key]; ok {
			day = *d
		}
		out.Daily = append(out.Daily, day)
		out.Totals.Bookings += day.Bookings
		out.Totals.Guests += day.Guests
	}
	out.Totals.UniqueUsers = len(emails)
	if d, ok := daily[out.Window.End]; ok {
		out.Today = DayStats{Bookings: d.Bookings, Guests: d.Guests}
	}
	return out, nil
}
