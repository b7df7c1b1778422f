package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Publisher publishes reservation events to RabbitMQ.  Each publish dials
// its own connection, so a broker outage only affects the mail being sent.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
type Publisher struct {
	URL string
	Now func() time.Time
}

func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url, Now: time.Now}
}

// SendConfirmation publishes a confirmation event for a new reservation.
func (p *Publisher) SendConfirmation(ctx context.Context, r model.Reservation, rest model.Restaurant) error {
	return p.Publish(ctx, NewReservationEvent(EventConfirmed, r, rest, p.Now()))
}

// SendReminder publishes a reminder event.
func (p *Publisher) SendReminder(ctx context.Context, r model.Reservation, rest model.Restaurant) error {
	return p.Publish(ctx, NewReservationEvent(EventReminder, r, rest, p.Now()))
}

// Publish sends ev to the queue for its type.  Messages are marked as
// persistent.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	queueName := ev.Type.Queue()
	if err := declareQueue(ch, queueName); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    p.Now().UTC(),
		MessageId:    ev.ReservationCode + ":" + string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// declareQueue is idempotent.  Durable so messages survive broker restarts.
func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}
