// Package stripe provides integration with the Stripe payment service: the
// donation payment gateway and the webhook processor that keeps the donation
// lifecycle in sync with the gateway.
package stripe

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/metrics"
	stripeapi "github.com/stripe/stripe-go/v81"
	"go.vocdoni.io/dvote/log"
)

// PaymentEventApplier applies a gateway lifecycle event to the stored
// donations. Applying the same event twice must be a no-op.
type PaymentEventApplier interface {
	ApplyPaymentEvent(ctx context.Context, event *PaymentEvent) error
}

// Service processes the Stripe webhook events.
type Service struct {
	client      *Client
	applier     PaymentEventApplier
	events      EventStore
	lockManager *LockManager
	config      *Config
}

// NewService creates a new Stripe webhook service. When events is nil an
// in-memory store is used.
func NewService(config *Config, applier PaymentEventApplier, events EventStore) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if applier == nil {
		return nil, fmt.Errorf("payment event applier is required")
	}
	if events == nil {
		events = NewMemoryEventStore(config.EventTTL)
	}
	return &Service{
		client:      NewClient(config),
		applier:     applier,
		events:      events,
		lockManager: NewLockManager(),
		config:      config,
	}, nil
}

// Client returns the gateway client sharing the service configuration.
func (s *Service) Client() *Client {
	return s.client
}

// HandleWebhookEvent validates the signature of the payload and processes
// the event once. Deliveries of an event id already processed are
// acknowledged without side effects.
func (s *Service) HandleWebhookEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.client.ValidateWebhookEvent(payload, signatureHeader)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid").Inc()
		return err
	}

	claimed, err := s.events.Claim(ctx, event.ID)
	if err != nil {
		// without the shared store the state machine still rejects duplicates
		log.Warnw("stripe webhook: cannot claim event, processing anyway", "event", event.ID, "error", err)
		claimed = true
	}
	if !claimed {
		log.Debugw("stripe webhook: event already processed, skipping", "event", event.ID, "type", event.Type)
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "duplicate").Inc()
		return nil
	}

	if err := s.HandleEvent(ctx, event); err != nil {
		if rerr := s.events.Release(ctx, event.ID); rerr != nil {
			log.Warnw("stripe webhook: cannot release event", "event", event.ID, "error", rerr)
		}
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "failed").Inc()
		return err
	}
	metrics.WebhookEvents.WithLabelValues(string(event.Type), "processed").Inc()
	return nil
}

// HandleEvent dispatches a verified event to the donation service.
func (s *Service) HandleEvent(ctx context.Context, event *stripeapi.Event) error {
	pe, err := parsePaymentEvent(event)
	if err != nil {
		return fmt.Errorf("stripe webhook: event %s (%s): %w", event.ID, event.Type, err)
	}
	if pe == nil {
		log.Debugw("stripe webhook: received unhandled event", "type", event.Type, "event", event.ID)
		return nil
	}

	unlock := s.lockManager.Lock(pe.LockKey())
	defer unlock()

	if err := s.applier.ApplyPaymentEvent(ctx, pe); err != nil {
		return fmt.Errorf("stripe webhook: failed to apply %s for %s: %w", pe.Kind, pe.TransactionID, err)
	}
	log.Infow("stripe webhook: event applied",
		"event", event.ID,
		"kind", pe.Kind,
		"transaction", pe.TransactionID,
		"campaign", pe.CampaignID)
	return nil
}
