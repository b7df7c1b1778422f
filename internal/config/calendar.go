package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/calendar"
	"github.com/iliyamo/table-reservation/internal/schedule"
)

// CalendarConfig chooses the calendar provider.
type CalendarConfig struct {
	Provider string // CALENDAR_PROVIDER: google, local or auto
	Timeout  time.Duration
	Google   calendar.GoogleConfig
}

// LoadCalendarConfig reads CALENDAR_* and GOOGLE_* variables.  Events are
// written in GOOGLE_CALENDAR_TIMEZONE, falling back to loc.
func LoadCalendarConfig(loc *time.Location) (CalendarConfig, error) {
	c := CalendarConfig{
		Provider: strings.ToLower(envStr("CALENDAR_PROVIDER", calendar.ProviderAuto)),
		Timeout:  envDur("CALENDAR_TIMEOUT", calendar.DefaultTimeout),
		Google: calendar.GoogleConfig{
			ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			PrivateKey:          os.Getenv("GOOGLE_PRIVATE_KEY"),
			CalendarID:          os.Getenv("GOOGLE_CALENDAR_ID"),
			Location:            loc,
			InviteAttendees:     envBool("GOOGLE_CALENDAR_INVITE_ATTENDEES", false),
		},
	}
	if tz := os.Getenv("GOOGLE_CALENDAR_TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return CalendarConfig{}, fmt.Errorf("GOOGLE_CALENDAR_TIMEZONE: %w", err)
		}
		c.Google.Location = l
	}
	switch c.Provider {
	case calendar.ProviderGoogle, calendar.ProviderLocal, calendar.ProviderAuto:
	default:
		return CalendarConfig{}, fmt.Errorf("CALENDAR_PROVIDER: unknown provider %q", c.Provider)
	}
	return c, nil
}

// LoadPolicy builds the opening-hours policy.  OPENING_HOURS_FILE replaces
// the house schedule; RESTAURANT_TIMEZONE wins over a zone named in the
// file.
func LoadPolicy() (*schedule.Policy, error) {
	hours := schedule.DefaultHours()
	var loc *time.Location
	if path := os.Getenv("OPENING_HOURS_FILE"); path != "" {
		h, l, err := schedule.LoadHoursFile(path)
		if err != nil {
			return nil, err
		}
		hours, loc = h, l
	}
	if tz := os.Getenv("RESTAURANT_TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("RESTAURANT_TIMEZONE: %w", err)
		}
		loc = l
	}
	return schedule.NewPolicy(hours, loc)
}
