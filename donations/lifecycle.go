package donations

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/events"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/metrics"
	"github.com/raiseyourvoice/backend/stripe"
	"go.mongodb.org/mongo-driver/mongo"
	"go.vocdoni.io/dvote/log"
)

// lifecycle lists the payment statuses reachable from each status.
var lifecycle = map[db.PaymentStatus][]db.PaymentStatus{
	db.PaymentPending:   {db.PaymentCompleted, db.PaymentFailed, db.PaymentCancelled},
	db.PaymentCompleted: {db.PaymentRefunded},
}

// CanTransition reports whether a donation can move between the statuses.
func CanTransition(from, to db.PaymentStatus) bool {
	for _, next := range lifecycle[from] {
		if next == to {
			return true
		}
	}
	return false
}

// amountDelta is the change of the campaign raised amount caused by the
// transition.
func amountDelta(from, to db.PaymentStatus, amount int64) int64 {
	switch {
	case to == db.PaymentCompleted:
		return amount
	case from == db.PaymentCompleted && to == db.PaymentRefunded:
		return -amount
	}
	return 0
}

// DonationEvent is the payload of the donation events.
type DonationEvent struct {
	DonationID     string           `json:"donationId"`
	CampaignID     string           `json:"campaignId"`
	UserID         string           `json:"userId,omitempty"`
	Amount         int64            `json:"amount"`
	Currency       string           `json:"currency"`
	Status         db.PaymentStatus `json:"status"`
	Subscription   bool             `json:"subscription"`
	TransactionID  string           `json:"transactionId,omitempty"`
	CampaignRaised int64            `json:"campaignRaised,omitempty"`
	At             time.Time        `json:"at"`
}

func newDonationEvent(d *db.Donation, campaign *db.Campaign) *DonationEvent {
	ev := &DonationEvent{
		DonationID:    d.ID.String(),
		CampaignID:    d.CampaignID.String(),
		Amount:        d.Amount,
		Currency:      d.Currency,
		Status:        d.PaymentStatus,
		Subscription:  d.IsSubscriptionDonation,
		TransactionID: d.TransactionID,
		At:            time.Now(),
	}
	if !d.IsAnonymous && !d.UserID.IsZero() {
		ev.UserID = d.UserID.String()
	}
	if campaign != nil {
		ev.CampaignRaised = campaign.AmountRaised
	}
	return ev
}

// insertDonation stores a new donation. Completed donations are inserted in
// the same transaction that increments the campaign raised amount. If the
// gateway reference or the id was already stored, the stored donation is
// returned.
func (s *Service) insertDonation(ctx context.Context, donation *db.Donation, source string) (*db.Donation, error) {
	var campaign *db.Campaign
	err := s.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.db.InsertDonation(sessCtx, donation, source); err != nil {
			return err
		}
		if delta := amountDelta("", donation.PaymentStatus, donation.Amount); delta != 0 {
			var err error
			if campaign, err = s.db.IncCampaignAmountRaised(sessCtx, donation.CampaignID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if goerrors.Is(err, db.ErrAlreadyExists) {
			existing, ferr := s.existingDonation(ctx, donation)
			if ferr != nil {
				return nil, storageError(ferr, errors.ErrDonationNotFound)
			}
			log.Debugw("donation already stored", "donationID", existing.ID.String(),
				"transaction", existing.TransactionID)
			return existing, nil
		}
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	metrics.RecordDonation(string(donation.PaymentStatus), source, donation.Currency, donation.Amount)
	if donation.PaymentStatus == db.PaymentCompleted {
		s.afterCompleted(ctx, donation, campaign)
	}
	return donation, nil
}

func (s *Service) existingDonation(ctx context.Context, donation *db.Donation) (*db.Donation, error) {
	if donation.TransactionID != "" {
		existing, err := s.db.DonationByTransactionID(ctx, donation.TransactionID)
		if err == nil {
			return existing, nil
		}
		if err != db.ErrNotFound {
			return nil, err
		}
	}
	return s.db.Donation(ctx, donation.ID)
}

// transition applies a lifecycle change. The status change, the optional
// gateway reference and the campaign raised amount change run in one
// transaction, conditional on the status the donation was read with.
func (s *Service) transition(ctx context.Context, donation *db.Donation, to db.PaymentStatus, source,
	transactionID string,
) (*db.Donation, error) {
	if !CanTransition(donation.PaymentStatus, to) {
		return nil, fmt.Errorf("%w: %s to %s", db.ErrInvalidTransition, donation.PaymentStatus, to)
	}
	delta := amountDelta(donation.PaymentStatus, to, donation.Amount)
	var (
		updated  *db.Donation
		campaign *db.Campaign
	)
	err := s.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		updated, err = s.db.TransitionDonation(sessCtx, donation.ID, donation.PaymentStatus, to, source)
		if err != nil {
			return err
		}
		if transactionID != "" && updated.TransactionID == "" {
			if err := s.db.SetDonationTransactionID(sessCtx, donation.ID, transactionID); err != nil {
				return err
			}
			updated.TransactionID = transactionID
		}
		if delta != 0 {
			if campaign, err = s.db.IncCampaignAmountRaised(sessCtx, donation.CampaignID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordDonation(string(to), source, updated.Currency, updated.Amount)
	log.Infow("donation status changed",
		"donationID", donation.ID.String(),
		"from", donation.PaymentStatus,
		"to", to,
		"source", source)
	switch to {
	case db.PaymentCompleted:
		s.afterCompleted(ctx, updated, campaign)
	case db.PaymentFailed:
		events.PublishAsync(s.publisher, events.DonationFailed, newDonationEvent(updated, nil))
	}
	return updated, nil
}

// afterCompleted runs the best effort side effects of a completed donation:
// the event, the owner notification and the milestone check.
func (s *Service) afterCompleted(ctx context.Context, donation *db.Donation, campaign *db.Campaign) {
	events.PublishAsync(s.publisher, events.DonationCompleted, newDonationEvent(donation, campaign))
	if campaign == nil {
		var err error
		if campaign, err = s.db.Campaign(ctx, donation.CampaignID); err != nil {
			log.Warnw("could not load donation campaign", "campaignID", donation.CampaignID.String(), "error", err)
			return
		}
	}
	if s.notifier != nil {
		donor := "An anonymous donor"
		if !donation.IsAnonymous && !donation.UserID.IsZero() {
			if user, err := s.db.User(ctx, donation.UserID); err == nil {
				donor = user.FirstName
			}
		}
		if err := s.notifier.NotifyOrganizationOwner(ctx, campaign.OrganizationID, &db.Notification{
			Type:  db.NotificationDonationReceived,
			Title: fmt.Sprintf("New donation to %s", campaign.Title),
			Body: fmt.Sprintf("%s donated %d %s to %q.", donor, donation.Amount, donation.Currency,
				campaign.Title),
			Data: map[string]string{
				"campaignId": campaign.ID.String(),
				"donationId": donation.ID.String(),
			},
		}); err != nil {
			log.Warnw("could not notify donation", "donationID", donation.ID.String(), "error", err)
		}
	}
	if s.milestones != nil {
		if _, err := s.milestones.CheckMilestones(ctx, campaign.ID); err != nil {
			log.Warnw("could not check milestones", "campaignID", campaign.ID.String(), "error", err)
		}
	}
}

// afterRefunded publishes the refund and notifies the donor.
func (s *Service) afterRefunded(ctx context.Context, donation *db.Donation) {
	events.PublishAsync(s.publisher, events.DonationRefunded, newDonationEvent(donation, nil))
	if s.notifier == nil || donation.UserID.IsZero() {
		return
	}
	if err := s.notifier.Notify(ctx, &db.Notification{
		UserID: donation.UserID,
		Type:   db.NotificationDonationRefunded,
		Title:  "Donation refunded",
		Body:   fmt.Sprintf("Your donation of %d %s was refunded.", donation.Amount, donation.Currency),
		Data:   map[string]string{"donationId": donation.ID.String()},
	}); err != nil {
		log.Warnw("could not notify refund", "donationID", donation.ID.String(), "error", err)
	}
}

// ApplyPaymentEvent applies a gateway webhook event through the lifecycle
// state machine. Events that would move a donation to the status it already
// has are ignored, so deliveries can be repeated safely.
func (s *Service) ApplyPaymentEvent(ctx context.Context, pe *stripe.PaymentEvent) error {
	switch pe.Kind {
	case stripe.PaymentSucceeded:
		return s.applyPaymentSucceeded(ctx, pe)
	case stripe.PaymentFailed:
		return s.applySimpleTransition(ctx, pe, db.PaymentFailed)
	case stripe.PaymentRefunded:
		err := s.applySimpleTransition(ctx, pe, db.PaymentRefunded)
		if err == nil {
			metrics.RefundsTotal.WithLabelValues("webhook").Inc()
		}
		return err
	case stripe.InvoicePaid:
		return s.applyInvoicePaid(ctx, pe)
	}
	log.Debugw("ignoring payment event", "kind", pe.Kind, "event", pe.EventID)
	return nil
}

func (s *Service) applyPaymentSucceeded(ctx context.Context, pe *stripe.PaymentEvent) error {
	donation, err := s.db.DonationByTransactionID(ctx, pe.TransactionID)
	if err == db.ErrNotFound {
		// the webhook arrived before the API stored the donation
		return s.insertFromEvent(ctx, pe, false)
	}
	if err != nil {
		return err
	}
	return s.applyTransition(ctx, donation, db.PaymentCompleted, "")
}

func (s *Service) applySimpleTransition(ctx context.Context, pe *stripe.PaymentEvent, to db.PaymentStatus) error {
	donation, err := s.db.DonationByTransactionID(ctx, pe.TransactionID)
	if err == db.ErrNotFound {
		log.Infow("payment event without donation", "kind", pe.Kind, "transaction", pe.TransactionID)
		return nil
	}
	if err != nil {
		return err
	}
	return s.applyTransition(ctx, donation, to, "")
}

func (s *Service) applyInvoicePaid(ctx context.Context, pe *stripe.PaymentEvent) error {
	if _, err := s.db.DonationByTransactionID(ctx, pe.TransactionID); err == nil {
		return nil
	} else if err != db.ErrNotFound {
		return err
	}
	// the first invoice completes the donation stored with the subscription
	pending, err := s.pendingSubscriptionDonation(ctx, pe)
	if err != nil {
		return err
	}
	if pending != nil {
		if pending.SubscriptionID == "" {
			if err := s.db.SetDonationSubscriptionID(ctx, pending.ID, pe.SubscriptionID); err != nil {
				return err
			}
		}
		return s.applyTransition(ctx, pending, db.PaymentCompleted, pe.TransactionID)
	}
	return s.insertFromEvent(ctx, pe, true)
}

// pendingSubscriptionDonation returns the Pending donation the invoice pays,
// found by the donation reference of the subscription metadata or, for
// subscriptions created without one, by the subscription. It returns nil
// when there is none.
func (s *Service) pendingSubscriptionDonation(ctx context.Context, pe *stripe.PaymentEvent,
) (*db.Donation, error) {
	if ref, err := internal.ObjectIDFromHex(pe.DonationRef); err == nil {
		donation, err := s.db.Donation(ctx, ref)
		switch {
		case err == db.ErrNotFound:
			return nil, nil
		case err != nil:
			return nil, err
		case donation.PaymentStatus != db.PaymentPending:
			return nil, nil
		}
		return donation, nil
	}
	donation, err := s.db.DonationBySubscription(ctx, pe.SubscriptionID, db.PaymentPending)
	if err == db.ErrNotFound {
		return nil, nil
	}
	return donation, err
}

// applyTransition moves the donation to the target status unless it is
// already there. Transitions the state machine does not allow are logged and
// dropped, retrying them would never succeed.
func (s *Service) applyTransition(ctx context.Context, donation *db.Donation, to db.PaymentStatus,
	transactionID string,
) error {
	if donation.PaymentStatus == to {
		return nil
	}
	if !CanTransition(donation.PaymentStatus, to) {
		log.Warnw("ignoring invalid donation transition from gateway",
			"donationID", donation.ID.String(),
			"from", donation.PaymentStatus,
			"to", to)
		return nil
	}
	updated, err := s.transition(ctx, donation, to, SourceWebhook, transactionID)
	if goerrors.Is(err, db.ErrUpdateWouldOverwrite) {
		// changed concurrently, apply again on the fresh state
		current, cerr := s.db.Donation(ctx, donation.ID)
		if cerr != nil {
			return cerr
		}
		if current.PaymentStatus == to || !CanTransition(current.PaymentStatus, to) {
			return nil
		}
		updated, err = s.transition(ctx, current, to, SourceWebhook, transactionID)
	}
	if err != nil {
		return err
	}
	if to == db.PaymentRefunded {
		s.afterRefunded(ctx, updated)
	}
	return nil
}

// insertFromEvent stores a Completed donation described by the gateway
// event metadata. Events naming an unknown campaign, or paid in another
// currency than the campaign one, are logged and acknowledged: retrying them
// would never succeed.
func (s *Service) insertFromEvent(ctx context.Context, pe *stripe.PaymentEvent, subscription bool) error {
	campaignID, err := internal.ObjectIDFromHex(pe.CampaignID)
	if err != nil {
		log.Warnw("payment event without campaign, ignoring",
			"kind", pe.Kind,
			"transaction", pe.TransactionID,
			"event", pe.EventID)
		return nil
	}
	campaign, err := s.db.Campaign(ctx, campaignID)
	if err == db.ErrNotFound {
		log.Warnw("payment event for unknown campaign, ignoring",
			"kind", pe.Kind,
			"campaignID", pe.CampaignID,
			"transaction", pe.TransactionID,
			"event", pe.EventID)
		return nil
	}
	if err != nil {
		return err
	}
	if !strings.EqualFold(pe.Currency, campaign.Currency) || pe.Amount <= 0 {
		log.Warnw("payment event does not match the campaign, ignoring",
			"kind", pe.Kind,
			"campaignID", pe.CampaignID,
			"currency", pe.Currency,
			"campaignCurrency", campaign.Currency,
			"amount", pe.Amount,
			"transaction", pe.TransactionID,
			"event", pe.EventID)
		return nil
	}
	donation := &db.Donation{
		CampaignID:             campaign.ID,
		Amount:                 pe.Amount,
		Currency:               campaign.Currency,
		PaymentStatus:          db.PaymentCompleted,
		TransactionID:          pe.TransactionID,
		IsAnonymous:            pe.IsAnonymous,
		Message:                pe.Message,
		IsSubscriptionDonation: subscription,
		SubscriptionID:         pe.SubscriptionID,
	}
	// every invoice of a subscription carries the reference of its first
	// donation, so only one-off payments reuse it as the id
	if ref, err := internal.ObjectIDFromHex(pe.DonationRef); err == nil && !subscription {
		donation.ID = ref
	}
	if userID, err := internal.ObjectIDFromHex(pe.UserID); err == nil {
		donation.UserID = userID
	}
	if _, err := s.insertDonation(ctx, donation, SourceWebhook); err != nil {
		return err
	}
	return nil
}
