// Package schedule decides when a restaurant accepts reservations.  A
// Policy is a fixed weekly table of half-open hour windows; it has no
// state and performs no I/O.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format of reservation dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format of reservation times.
	TimeLayout = "15:04"
)

// ErrInvalidSlot is returned when a date or time string cannot be parsed.
var ErrInvalidSlot = errors.New("invalid date or time")

// Window is the half-open interval [Start, End) of opening hours for one
// day.  End may be 24 to mean "until midnight".
type Window struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Contains reports whether hour falls inside the window.  The End hour
// itself is closed.
func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

func (w Window) validate() error {
	if w.Start < 0 || w.End > 24 || w.Start >= w.End {
		return fmt.Errorf("window %d-%d: start must be >= 0, end <= 24 and start < end", w.Start, w.End)
	}
	return nil
}

// Hours maps each weekday to its opening window.  Missing days are closed.
type Hours map[time.Weekday]Window

// DefaultHours is the house schedule: Mon–Thu 11–23, Fri 11–24,
// Sat 12–24, Sun 12–22.
func DefaultHours() Hours {
	return Hours{
		time.Sunday:    {Start: 12, End: 22},
		time.Monday:    {Start: 11, End: 23},
		time.Tuesday:   {Start: 11, End: 23},
		time.Wednesday: {Start: 11, End: 23},
		time.Thursday:  {Start: 11, End: 23},
		time.Friday:    {Start: 11, End: 24},
		time.Saturday:  {Start: 12, End: 24},
	}
}

// Validate checks every configured window.
func (h Hours) Validate() error {
	for day, w := range h {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("unknown weekday %d", day)
		}
		if err := w.validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// Policy evaluates opening hours.  Dates and times are interpreted in Loc;
// a nil Loc means UTC.
type Policy struct {
	hours Hours
	loc   *time.Location
}

// NewPolicy returns a Policy over a copy of hours.  It fails when any
// window is malformed.
func NewPolicy(hours Hours, loc *time.Location) (*Policy, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	cp := make(Hours, len(hours))
	for d, w := range hours {
		cp[d] = w
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Policy{hours: cp, loc: loc}, nil
}

// Default returns the house schedule evaluated in UTC.
func Default() *Policy {
	p, _ := NewPolicy(DefaultHours(), time.UTC)
	return p
}

// Location returns the zone the policy evaluates in.
func (p *Policy) Location() *time.Location { return p.loc }

// Window returns the opening window for day and whether the day is open at all.
func (p *Policy) Window(day time.Weekday) (Window, bool) {
	w, ok := p.hours[day]
	return w, ok
}

// IsOpen reports whether hour on day falls inside the configured window.
func (p *Policy) IsOpen(day time.Weekday, hour int) bool {
	w, ok := p.hours[day]
	if !ok {
		return false
	}
	return w.Contains(hour)
}

// IsOpenAt parses a YYYY-MM-DD date and HH:MM time and reports whether the
// restaurant is open at that moment.
func (p *Policy) IsOpenAt(date, clock string) (bool, error) {
	t, err := p.At(date, clock)
	if err != nil {
		return false, err
	}
	return p.IsOpen(t.Weekday(), t.Hour()), nil
}

// At combines a date and time string into an instant in the policy's zone.
func (p *Policy) At(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, p.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidSlot, date, clock)
	}
	return t, nil
}

// Slots lists the on-the-hour start times ("HH:00") inside day's window, in
// order.  A closed day yields an empty slice.
func (p *Policy) Slots(day time.Weekday) []string {
	w, ok := p.hours[day]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, w.End-w.Start)
	for h := w.Start; h < w.End; h++ {
		out = append(out, FormatHour(h))
	}
	return out
}

// SlotsFor is Slots for the weekday of a YYYY-MM-DD date.
func (p *Policy) SlotsFor(date string) ([]string, error) {
	t, err := time.ParseInLocation(DateLayout, date, p.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlot, date)
	}
	return p.Slots(t.Weekday()), nil
}

// FormatHour renders an hour as the "HH:00" bucket label.
func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// HourBucket maps an "HH:MM" time onto its "HH:00" bucket.
func HourBucket(clock string) string {
	hh, _, ok := strings.Cut(clock, ":")
	if !ok {
		return clock
	}
	n, err := strconv.Atoi(hh)
	if err != nil {
		return clock
	}
	return FormatHour(n)
}
