package queue

import (
	"bytes"
	"fmt"
	"text/template"
)

// Mail is a rendered guest e-mail.
type Mail struct {
	To      string
	Subject string
	Body    string
}

var mailBody = template.Must(template.New("mail").Parse(`Hello {{.GuestName}},

{{if eq .Type "reminder"}}This is a reminder that your table at {{.RestaurantName}} is coming up soon.{{else}}Your table at {{.RestaurantName}} is confirmed.{{end}}

  Reservation code: {{.ReservationCode}}
  Date:             {{.Date}}
  Time:             {{.Time}}
  Guests:           {{.Guests}}
{{- if .RestaurantAddress}}
  Address:          {{.RestaurantAddress}}
{{- end}}
{{- if .RestaurantPhone}}
  Phone:            {{.RestaurantPhone}}
{{- end}}

Keep your reservation code to view, change or cancel this booking.

{{.RestaurantName}}
`))

// Render turns an event into the mail sent to the guest.
func Render(ev ReservationEvent) (Mail, error) {
	var buf bytes.Buffer
	if err := mailBody.Execute(&buf, ev); err != nil {
		return Mail{}, fmt.Errorf("render mail: %w", err)
	}
	subject := fmt.Sprintf("Your reservation at %s is confirmed (%s)", ev.RestaurantName, ev.ReservationCode)
	if ev.Type == EventReminder {
		subject = fmt.Sprintf("Reminder: your reservation at %s on %s at %s", ev.RestaurantName, ev.Date, ev.Time)
	}
	return Mail{To: ev.GuestEmail, Subject: subject, Body: buf.String()}, nil
}
