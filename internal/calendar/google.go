package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/jwt"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// GoogleConfig holds service-account credentials for the Calendar API.
type GoogleConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	CalendarID          string
	Location            *time.Location
	InviteAttendees     bool
}

// Configured reports whether every credential is present.
func (c GoogleConfig) Configured() bool {
	return c.ServiceAccountEmail != "" && c.PrivateKey != "" && c.CalendarID != ""
}

// Google talks to the Google Calendar API.
type Google struct {
	svc        *gcal.Service
	calendarID string
	opts       EventOptions
}

// NewGoogle authenticates as the service account and returns a provider.
// Extra client options are appended after the credentials, which lets
// callers point the client at a different endpoint.
func NewGoogle(ctx context.Context, cfg GoogleConfig, extra ...option.ClientOption) (*Google, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	// Keys pasted into env files usually carry escaped newlines.
	key := strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")
	conf := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(key),
		Scopes:     []string{gcal.CalendarEventsScope},
		TokenURL:   googleTokenURL,
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(conf.Client(ctx))}, extra...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return NewGoogleWithService(svc, cfg.CalendarID, EventOptions{Location: cfg.Location, InviteAttendees: cfg.InviteAttendees}), nil
}

// NewGoogleWithService wraps an already constructed Calendar service.
func NewGoogleWithService(svc *gcal.Service, calendarID string, opts EventOptions) *Google {
	return &Google{svc: svc, calendarID: calendarID, opts: opts}
}

func (g *Google) Create(ctx context.Context, d Details) (string, error) {
	ev, err := BuildEvent(d, g.opts)
	if err != nil {
		return "", err
	}
	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create calendar event: %w", err)
	}
	return created.Id, nil
}

func (g *Google) Update(ctx context.Context, eventID string, d Details) error {
	ev, err := BuildEvent(d, g.opts)
	if err != nil {
		return err
	}
	if _, err := g.svc.Events.Update(g.calendarID, eventID, ev).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	return nil
}

func (g *Google) Cancel(ctx context.Context, eventID string) error {
	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("cancel calendar event: %w", err)
	}
	return nil
}
