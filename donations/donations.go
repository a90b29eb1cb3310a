// Package donations implements the donation service: one-off and recurring
// donations, refunds and cancellations, the payment lifecycle state machine
// and the application of the gateway webhook events.
package donations

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/raiseyourvoice/backend/campaigns"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/events"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/metrics"
	"github.com/raiseyourvoice/backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// Sources recorded in the donation status history.
const (
	SourceAPI     = "api"
	SourceWebhook = "webhook"
)

// PaymentGateway charges, refunds and cancels payments. It is implemented
// by the Stripe client.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, req *stripe.PaymentRequest) (*stripe.PaymentResult, error)
	CancelPayment(ctx context.Context, transactionID string) (*stripe.PaymentResult, error)
	RefundPayment(ctx context.Context, transactionID, idempotencyKey string) (*stripe.PaymentResult, error)
	CreateSubscription(ctx context.Context, req *stripe.SubscriptionRequest) (*stripe.SubscriptionResult, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// MilestoneChecker completes the campaign milestones covered by the raised
// amount. It is implemented by the campaign service.
type MilestoneChecker interface {
	CheckMilestones(ctx context.Context, campaignID internal.ObjectID) ([]db.Milestone, error)
}

// Config holds the dependencies of the donation service. Notifier,
// Milestones and Publisher are optional.
type Config struct {
	DB         *db.MongoStorage
	Gateway    PaymentGateway
	Milestones MilestoneChecker
	Notifier   campaigns.Notifier
	Publisher  events.Publisher
}

// Service manages the donations.
type Service struct {
	db         *db.MongoStorage
	gateway    PaymentGateway
	milestones MilestoneChecker
	notifier   campaigns.Notifier
	publisher  events.Publisher
}

// New creates the donation service.
func New(conf *Config) (*Service, error) {
	if conf == nil || conf.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if conf.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	publisher := conf.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		db:         conf.DB,
		gateway:    conf.Gateway,
		milestones: conf.Milestones,
		notifier:   conf.Notifier,
		publisher:  publisher,
	}, nil
}

// DonationRequest is a one-off or recurring donation to a campaign. Amount is
// in minor units of Currency.
type DonationRequest struct {
	CampaignID      internal.ObjectID
	Amount          int64
	Currency        string
	PaymentMethodID string
	IsAnonymous     bool
	Message         string
	IdempotencyKey  string
}

// CreateDonation charges the donor and stores the donation. Completed
// payments are stored together with the campaign raised amount increment in
// one transaction. A failed payment stores nothing and returns
// ErrPaymentFailed with the message of the gateway.
func (s *Service) CreateDonation(ctx context.Context, caller *db.User, req *DonationRequest) (*db.Donation, error) {
	campaign, err := s.donatableCampaign(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}
	donation := &db.Donation{
		ID:          internal.NewObjectID(),
		CampaignID:  campaign.ID,
		Amount:      req.Amount,
		Currency:    campaign.Currency,
		IsAnonymous: req.IsAnonymous,
		Message:     req.Message,
	}
	payment := &stripe.PaymentRequest{
		Amount:          req.Amount,
		Currency:        campaign.Currency,
		PaymentMethodID: req.PaymentMethodID,
		IdempotencyKey:  req.IdempotencyKey,
		CampaignID:      campaign.ID.String(),
		DonationRef:     donation.ID.String(),
		IsAnonymous:     req.IsAnonymous,
	}
	if caller != nil {
		donation.UserID = caller.ID
		payment.UserID = caller.ID.String()
		payment.ReceiptEmail = caller.Email
	}

	result, err := s.gateway.ProcessPayment(ctx, payment)
	if err != nil {
		metrics.RecordDonation(string(db.PaymentFailed), SourceAPI, campaign.Currency, req.Amount)
		return nil, errors.ErrStripeError.WithErr(err)
	}
	if !result.Success {
		metrics.RecordDonation(string(db.PaymentFailed), SourceAPI, campaign.Currency, req.Amount)
		log.Infow("donation payment failed",
			"campaignID", campaign.ID.String(),
			"transaction", result.TransactionID,
			"status", result.Status,
			"message", result.ErrorMessage)
		return nil, errors.ErrPaymentFailed.With(result.ErrorMessage)
	}
	donation.TransactionID = result.TransactionID
	donation.PaymentStatus = db.PaymentPending
	if result.Status == "succeeded" {
		donation.PaymentStatus = db.PaymentCompleted
	}

	stored, err := s.insertDonation(ctx, donation, SourceAPI)
	if err != nil {
		return nil, err
	}
	log.Infow("donation created",
		"donationID", stored.ID.String(),
		"campaignID", campaign.ID.String(),
		"amount", stored.Amount,
		"currency", stored.Currency,
		"status", stored.PaymentStatus)
	return stored, nil
}

// CreateSubscriptionDonation subscribes the caller to a monthly donation. The
// Pending donation is stored before the subscription is created and its id
// travels in the subscription metadata, so the first invoice completes it
// even when the webhook arrives before this call returns.
func (s *Service) CreateSubscriptionDonation(ctx context.Context, caller *db.User, req *DonationRequest,
) (*db.Donation, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	campaign, err := s.donatableCampaign(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}
	donation, err := s.insertDonation(ctx, &db.Donation{
		ID:                     internal.NewObjectID(),
		CampaignID:             campaign.ID,
		UserID:                 caller.ID,
		Amount:                 req.Amount,
		Currency:               campaign.Currency,
		PaymentStatus:          db.PaymentPending,
		IsAnonymous:            req.IsAnonymous,
		Message:                req.Message,
		IsSubscriptionDonation: true,
	}, SourceAPI)
	if err != nil {
		return nil, err
	}
	sub, err := s.gateway.CreateSubscription(ctx, &stripe.SubscriptionRequest{
		Email:           caller.Email,
		Name:            strings.TrimSpace(caller.FirstName + " " + caller.LastName),
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Currency:        campaign.Currency,
		CampaignID:      campaign.ID.String(),
		DonationRef:     donation.ID.String(),
		UserID:          caller.ID.String(),
		IsAnonymous:     req.IsAnonymous,
		Message:         req.Message,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		if _, terr := s.transition(ctx, donation, db.PaymentFailed, SourceAPI, ""); terr != nil {
			log.Warnw("could not fail subscription donation", "donationID", donation.ID.String(), "error", terr)
		}
		return nil, errors.ErrStripeError.WithErr(err)
	}
	if err := s.db.SetDonationSubscriptionID(ctx, donation.ID, sub.SubscriptionID); err != nil {
		return nil, storageError(err, errors.ErrDonationNotFound)
	}
	log.Infow("subscription donation created",
		"donationID", donation.ID.String(),
		"campaignID", campaign.ID.String(),
		"subscription", sub.SubscriptionID,
		"amount", donation.Amount)
	// the first invoice may have been applied already
	stored, err := s.db.Donation(ctx, donation.ID)
	if err != nil {
		return nil, storageError(err, errors.ErrDonationNotFound)
	}
	return stored, nil
}

// RefundDonation refunds a Completed donation at the gateway and then, in
// one transaction, marks it Refunded and subtracts its amount from the
// campaign. Only administrators and the organization owner can refund.
func (s *Service) RefundDonation(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Donation, error) {
	donation, err := s.db.Donation(ctx, id)
	if err != nil {
		return nil, storageError(err, errors.ErrDonationNotFound)
	}
	if err := s.checkCampaignManager(ctx, caller, donation.CampaignID); err != nil {
		return nil, err
	}
	if donation.PaymentStatus != db.PaymentCompleted {
		return nil, errors.ErrInvalidTransition.Withf("donation in status %s cannot be refunded",
			donation.PaymentStatus)
	}
	if donation.TransactionID == "" {
		return nil, errors.ErrDonationNotRefunded.With("donation has no payment reference")
	}
	result, err := s.gateway.RefundPayment(ctx, donation.TransactionID, "refund-"+donation.ID.String())
	if err != nil {
		metrics.RefundsTotal.WithLabelValues("gateway_error").Inc()
		return nil, errors.ErrStripeError.WithErr(err)
	}
	if !result.Success {
		metrics.RefundsTotal.WithLabelValues("rejected").Inc()
		return nil, errors.ErrDonationNotRefunded.With(result.ErrorMessage)
	}
	updated, err := s.transition(ctx, donation, db.PaymentRefunded, SourceAPI, "")
	if err != nil {
		if goerrors.Is(err, db.ErrUpdateWouldOverwrite) {
			// the charge.refunded webhook may have been applied meanwhile
			if current, cerr := s.db.Donation(ctx, id); cerr == nil && current.PaymentStatus == db.PaymentRefunded {
				metrics.RefundsTotal.WithLabelValues("succeeded").Inc()
				return current, nil
			}
		}
		// the gateway refunded the payment, the webhook will apply the transition
		log.Errorw(err, fmt.Sprintf("refund %s accepted by the gateway but donation %s was not updated",
			result.TransactionID, donation.ID))
		metrics.RefundsTotal.WithLabelValues("storage_error").Inc()
		return nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	metrics.RefundsTotal.WithLabelValues("succeeded").Inc()
	s.afterRefunded(ctx, updated)
	return updated, nil
}

// CancelDonation cancels a Pending donation at the gateway. For subscription
// donations it cancels the subscription whatever the donation status, and
// only a still Pending donation moves to Cancelled; the invoices already
// paid stay Completed.
func (s *Service) CancelDonation(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Donation, error) {
	donation, err := s.db.Donation(ctx, id)
	if err != nil {
		return nil, storageError(err, errors.ErrDonationNotFound)
	}
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	if !caller.IsAdmin() && donation.UserID != caller.ID {
		return nil, errors.ErrNotOwnerOfItem
	}
	if donation.IsSubscriptionDonation && donation.SubscriptionID != "" {
		return s.cancelSubscription(ctx, caller, donation)
	}
	if !CanTransition(donation.PaymentStatus, db.PaymentCancelled) {
		return nil, errors.ErrInvalidTransition.Withf("donation in status %s cannot be cancelled",
			donation.PaymentStatus)
	}
	if donation.TransactionID != "" {
		result, err := s.gateway.CancelPayment(ctx, donation.TransactionID)
		if err != nil {
			return nil, errors.ErrStripeError.WithErr(err)
		}
		if !result.Success {
			return nil, errors.ErrInvalidTransition.Withf("payment in status %s cannot be cancelled", result.Status)
		}
	}
	updated, err := s.transition(ctx, donation, db.PaymentCancelled, SourceAPI, "")
	if err != nil {
		return nil, storageError(err, errors.ErrDonationNotFound)
	}
	log.Infow("donation cancelled", "donationID", id.String(), "user", caller.Email)
	return updated, nil
}

func (s *Service) cancelSubscription(ctx context.Context, caller *db.User, donation *db.Donation,
) (*db.Donation, error) {
	if donation.SubscriptionCancelledAt != nil {
		return nil, errors.ErrInvalidTransition.With("subscription already cancelled")
	}
	if err := s.gateway.CancelSubscription(ctx, donation.SubscriptionID); err != nil {
		return nil, errors.ErrStripeError.WithErr(err)
	}
	if err := s.db.SetSubscriptionCancelled(ctx, donation.SubscriptionID); err != nil {
		log.Warnw("subscription cancelled at the gateway but not marked",
			"subscription", donation.SubscriptionID, "error", err)
	}
	log.Infow("subscription cancelled",
		"donationID", donation.ID.String(),
		"subscription", donation.SubscriptionID,
		"user", caller.Email)
	if donation.PaymentStatus == db.PaymentPending {
		_, err := s.transition(ctx, donation, db.PaymentCancelled, SourceAPI, "")
		// the first invoice may have completed it meanwhile
		if err != nil && !goerrors.Is(err, db.ErrUpdateWouldOverwrite) {
			return nil, storageError(err, errors.ErrDonationNotFound)
		}
	}
	current, err := s.db.Donation(ctx, donation.ID)
	if err != nil {
		return nil, storageError(err, errors.ErrDonationNotFound)
	}
	return current, nil
}

// donatableCampaign validates the request and returns the campaign if it
// accepts donations.
func (s *Service) donatableCampaign(ctx context.Context, req *DonationRequest) (*db.Campaign, error) {
	if req == nil {
		return nil, errors.ErrInvalidDonationData
	}
	if req.Amount <= 0 {
		return nil, errors.ErrInvalidAmount
	}
	campaign, err := s.db.Campaign(ctx, req.CampaignID)
	if err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	if campaign.Status != db.CampaignActive {
		return nil, errors.ErrCampaignNotActive.Withf("campaign status is %s", campaign.Status)
	}
	if req.Currency != "" && !strings.EqualFold(req.Currency, campaign.Currency) {
		return nil, errors.ErrInvalidDonationData.Withf("campaign accepts %s donations only", campaign.Currency)
	}
	return campaign, nil
}

// checkCampaignManager allows administrators and the owner of the
// organization running the campaign.
func (s *Service) checkCampaignManager(ctx context.Context, caller *db.User, campaignID internal.ObjectID) error {
	if caller == nil {
		return errors.ErrUnauthorized
	}
	if caller.IsAdmin() {
		return nil
	}
	campaign, err := s.db.Campaign(ctx, campaignID)
	if err != nil {
		return storageError(err, errors.ErrCampaignNotFound)
	}
	org, err := s.db.Organization(ctx, campaign.OrganizationID)
	if err != nil {
		return storageError(err, errors.ErrOrganizationNotFound)
	}
	if org.OwnerID != caller.ID {
		return errors.ErrNotOwnerOfItem
	}
	return nil
}

// storageError translates the storage sentinel errors, also when wrapped by
// a transaction.
func storageError(err error, notFound errors.Error) error {
	switch {
	case err == nil:
		return nil
	case goerrors.Is(err, db.ErrNotFound):
		return notFound
	case goerrors.Is(err, db.ErrInvalidData):
		return errors.ErrInvalidDonationData
	case goerrors.Is(err, db.ErrUpdateWouldOverwrite):
		return errors.ErrConcurrentUpdate
	case goerrors.Is(err, db.ErrAlreadyExists):
		return errors.ErrDuplicateConflict
	case goerrors.Is(err, db.ErrInvalidTransition):
		return errors.ErrInvalidTransition
	}
	var appErr errors.Error
	if goerrors.As(err, &appErr) {
		return appErr
	}
	return errors.ErrGenericInternalServerError.WithErr(err)
}
