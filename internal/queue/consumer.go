package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the reservation queues and delivers each event through a
// MailSink.  It runs a reconnect loop until its context is cancelled.
type Consumer struct {
	URL  string
	Sink MailSink
}

// MailSink receives rendered mails.
type MailSink interface {
	Deliver(m Mail) error
}

// Run blocks until ctx is done.  Broker failures are logged and retried with
// backoff; a message that cannot be handled is rejected without requeue so
// it cannot spin.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("mail-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("mail-consumer: consume loop ended: %v; reconnecting", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("mail-consumer: set QoS failed: %v", err)
	}

	// The forwarders stop with this loop, not only with ctx, so a reconnect
	// does not leave them blocked on merged.
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := make(chan amqp.Delivery)
	for _, name := range []string{ConfirmedQueue, ReminderQueue} {
		if err := declareQueue(ch, name); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go forward(loopCtx, msgs, merged)
	}
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr != nil {
				return amqpErr
			}
			return errors.New("connection closed")
		case d := <-merged:
			if err := c.handle(d.Body); err != nil {
				log.Printf("mail-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// forward copies deliveries from in to out until in closes or ctx is done.
func forward(ctx context.Context, in <-chan amqp.Delivery, out chan<- amqp.Delivery) {
	for d := range in {
		select {
		case out <- d:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Consumer) handle(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.GuestEmail == "" {
		return errors.New("event without guest e-mail")
	}
	m, err := Render(ev)
	if err != nil {
		return err
	}
	return c.Sink.Deliver(m)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// FileSink appends mails to a log file, creating its directory on first
// use.  It stands in for an SMTP relay.
type FileSink struct {
	Path string
}

func (s FileSink) Deliver(m Mail) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir mail log: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open mail log: %w", err)
	}
	defer f.Close()
	return writeMail(f, m)
}

func writeMail(w io.Writer, m Mail) error {
	_, err := fmt.Fprintf(w, "[%s] To: %s\nSubject: %s\n\n%s\n", time.Now().UTC().Format(time.RFC3339), m.To, m.Subject, m.Body)
	if err != nil {
		return fmt.Errorf("write mail log: %w", err)
	}
	return nil
}
