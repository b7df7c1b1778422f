package queue

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// LogMailer renders mails in-process and hands them to a sink.  It is used
// when no broker is configured.
type LogMailer struct {
	Sink MailSink
	Now  func() time.Time
}

// LogSink writes mails to the standard logger.
type LogSink struct{}

func (LogSink) Deliver(m Mail) error {
	log.Printf("mail: to=%s subject=%q\n%s", m.To, m.Subject, m.Body)
	return nil
}

func NewLogMailer(sink MailSink) *LogMailer {
	if sink == nil {
		sink = LogSink{}
	}
	return &LogMailer{Sink: sink, Now: time.Now}
}

func (l *LogMailer) SendConfirmation(_ context.Context, r model.Reservation, rest model.Restaurant) error {
	return l.send(NewReservationEvent(EventConfirmed, r, rest, l.Now()))
}

func (l *LogMailer) SendReminder(_ context.Context, r model.Reservation, rest model.Restaurant) error {
	return l.send(NewReservationEvent(EventReminder, r, rest, l.Now()))
}

func (l *LogMailer) send(ev ReservationEvent) error {
	m, err := Render(ev)
	if err != nil {
		return err
	}
	return l.Sink.Deliver(m)
}
