// Package events publishes portal domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Routing keys
const (
	UserCreated          = "user.created"
	ApplicationSubmitted = "application.submitted"
	ApplicationStatus    = "application.status_changed"
	ReportGenerated      = "report.generated"
)

// Publisher sends a JSON payload under a routing key
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
	Close() error
}

// Envelope wraps every payload so consumers can route on type and time.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// AMQPPublisher publishes to a durable topic exchange
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish implements Publisher. Channels are not safe for concurrent use,
// so publishes are serialized.
func (p *AMQPPublisher) Publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(Envelope{Type: key, OccurredAt: time.Now().UTC(), Data: payload})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", key, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Close implements Publisher.
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher records events in the log when no broker is configured
type LogPublisher struct {
	Logger zerolog.Logger
}

// Publish implements Publisher.
func (p LogPublisher) Publish(_ context.Context, key string, payload any) error {
	p.Logger.Debug().Str("event", key).Interface("payload", payload).Msg("Event published to log")
	return nil
}

// Close implements Publisher.
func (LogPublisher) Close() error { return nil }
