package stripe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v81"
)

// PaymentEventKind identifies the lifecycle change reported by the gateway.
type PaymentEventKind string

const (
	PaymentSucceeded PaymentEventKind = "payment_succeeded"
	PaymentFailed    PaymentEventKind = "payment_failed"
	PaymentRefunded  PaymentEventKind = "payment_refunded"
	InvoicePaid      PaymentEventKind = "invoice_paid"
)

// PaymentEvent is the gateway independent view of a webhook event that the
// donation service applies. Amounts are in minor units.
type PaymentEvent struct {
	EventID        string
	Kind           PaymentEventKind
	TransactionID  string
	DonationRef    string
	SubscriptionID string
	CampaignID     string
	UserID         string
	IsAnonymous    bool
	Message        string
	Amount         int64
	Currency       string
	FailureMessage string
}

// LockKey returns the key used to serialise the processing of the event.
func (e *PaymentEvent) LockKey() string {
	if e.CampaignID != "" {
		return "campaign:" + e.CampaignID
	}
	if e.SubscriptionID != "" {
		return "subscription:" + e.SubscriptionID
	}
	return "transaction:" + e.TransactionID
}

// parsePaymentEvent translates the supported Stripe events. It returns nil
// and no error for the event types the service does not handle.
func parsePaymentEvent(event *stripeapi.Event) (*PaymentEvent, error) {
	if event.Data == nil {
		return nil, ErrInvalidEvent.withMessage(fmt.Sprintf("event %s has no data", event.ID))
	}
	var (
		pe  *PaymentEvent
		err error
	)
	switch event.Type {
	case stripeapi.EventTypePaymentIntentSucceeded:
		pe, err = parsePaymentIntent(event.Data.Raw, PaymentSucceeded)
	case stripeapi.EventTypePaymentIntentPaymentFailed:
		pe, err = parsePaymentIntent(event.Data.Raw, PaymentFailed)
	case stripeapi.EventTypeChargeRefunded:
		pe, err = parseChargeRefunded(event.Data.Raw)
	case stripeapi.EventTypeInvoicePaid:
		pe, err = parseInvoicePaid(event.Data.Raw)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if pe != nil {
		pe.EventID = event.ID
	}
	return pe, nil
}

func parsePaymentIntent(raw json.RawMessage, kind PaymentEventKind) (*PaymentEvent, error) {
	var intent stripeapi.PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, NewStripeError(ErrInvalidEvent.Code, "error parsing payment intent", err)
	}
	if intent.ID == "" {
		return nil, ErrInvalidEvent.withMessage("payment intent without id")
	}
	// payment intents created by subscription invoices are handled by invoice.paid
	if intent.Invoice != nil && intent.Invoice.ID != "" {
		return nil, nil
	}
	anonymous, _ := strconv.ParseBool(intent.Metadata[MetadataAnonymous])
	pe := &PaymentEvent{
		Kind:          kind,
		TransactionID: intent.ID,
		DonationRef:   intent.Metadata[MetadataDonationRef],
		CampaignID:    intent.Metadata[MetadataCampaignID],
		UserID:        intent.Metadata[MetadataUserID],
		IsAnonymous:   anonymous,
		Amount:        intent.Amount,
		Currency:      strings.ToLower(string(intent.Currency)),
	}
	if intent.LastPaymentError != nil {
		pe.FailureMessage = intent.LastPaymentError.Msg
	}
	return pe, nil
}

func parseChargeRefunded(raw json.RawMessage) (*PaymentEvent, error) {
	var charge stripeapi.Charge
	if err := json.Unmarshal(raw, &charge); err != nil {
		return nil, NewStripeError(ErrInvalidEvent.Code, "error parsing charge", err)
	}
	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		return nil, ErrInvalidEvent.withMessage(fmt.Sprintf("charge %s has no payment intent", charge.ID))
	}
	// partial refunds are not modelled, the donation keeps its status
	if !charge.Refunded {
		return nil, nil
	}
	return &PaymentEvent{
		Kind:          PaymentRefunded,
		TransactionID: charge.PaymentIntent.ID,
		CampaignID:    charge.Metadata[MetadataCampaignID],
		Amount:        charge.AmountRefunded,
		Currency:      strings.ToLower(string(charge.Currency)),
	}, nil
}

func parseInvoicePaid(raw json.RawMessage) (*PaymentEvent, error) {
	var invoice stripeapi.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		return nil, NewStripeError(ErrInvalidEvent.Code, "error parsing invoice", err)
	}
	if invoice.Subscription == nil || invoice.Subscription.ID == "" {
		// one-off invoices are not donations
		return nil, nil
	}
	var metadata map[string]string
	if invoice.SubscriptionDetails != nil {
		metadata = invoice.SubscriptionDetails.Metadata
	}
	if metadata[MetadataCampaignID] == "" {
		return nil, ErrMissingMetadata.withMessage(
			fmt.Sprintf("invoice %s of subscription %s has no campaign", invoice.ID, invoice.Subscription.ID))
	}
	anonymous, _ := strconv.ParseBool(metadata[MetadataAnonymous])
	pe := &PaymentEvent{
		Kind:           InvoicePaid,
		TransactionID:  invoice.ID,
		SubscriptionID: invoice.Subscription.ID,
		DonationRef:    metadata[MetadataDonationRef],
		CampaignID:     metadata[MetadataCampaignID],
		UserID:         metadata[MetadataUserID],
		IsAnonymous:    anonymous,
		Message:        metadata[MetadataMessage],
		Amount:         invoice.AmountPaid,
		Currency:       strings.ToLower(string(invoice.Currency)),
	}
	if invoice.PaymentIntent != nil && invoice.PaymentIntent.ID != "" {
		pe.TransactionID = invoice.PaymentIntent.ID
	}
	return pe, nil
}
