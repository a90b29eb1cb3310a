// Package events publishes domain events (donations, campaign status changes
// and milestones) to a RabbitMQ topic exchange so other systems can react to
// them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.vocdoni.io/dvote/log"
)

// ExchangeName is the topic exchange every event is published to.
const ExchangeName = "raiseyourvoice.events"

// Routing keys of the published events.
const (
	DonationCompleted        = "donation.completed"
	DonationRefunded         = "donation.refunded"
	DonationFailed           = "donation.failed"
	CampaignStatusChanged    = "campaign.status_changed"
	CampaignMilestoneReached = "campaign.milestone_reached"
)

// Publisher sends events to the bus.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close()
}

// Envelope wraps every published payload.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// AMQPPublisher publishes persistent JSON messages to the topic exchange.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

// Publish marshals the payload inside an Envelope and publishes it.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(Envelope{
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn.IsClosed() {
		return fmt.Errorf("amqp connection closed")
	}
	return p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	log.Debugw("event discarded", "routingKey", routingKey)
	return nil
}

func (NopPublisher) Close() {}

// PublishAsync publishes the event in the background, logging failures. Event
// delivery never blocks nor fails the operation that produced it.
func PublishAsync(p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, routingKey, payload); err != nil {
			log.Warnw("failed to publish event", "routingKey", routingKey, "error", err)
		}
	}()
}
