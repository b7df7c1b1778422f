package calendar

import (
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// Reminder offsets attached to every event.
const (
	EmailReminderMinutes = 24 * 60
	PopupReminderMinutes = 120
)

// EventOptions control how events are rendered for Google Calendar.
type EventOptions struct {
	Location *time.Location
	// InviteAttendees adds the guest as an attendee.  Service accounts can
	// only do this with domain-wide delegation, so it is off by default.
	InviteAttendees bool
}

// BuildEvent renders d as a Google Calendar event.
func BuildEvent(d Details, opts EventOptions) (*gcal.Event, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	start, end, err := d.Window(loc)
	if err != nil {
		return nil, err
	}
	ev := &gcal.Event{
		Summary:     d.Summary(),
		Description: d.Description(),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: EmailReminderMinutes},
				{Method: "popup", Minutes: PopupReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if opts.InviteAttendees && d.Email != "" {
		ev.Attendees = []*gcal.EventAttendee{{Email: d.Email}}
	}
	return ev, nil
}
