package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v81"
	stripecustomer "github.com/stripe/stripe-go/v81/customer"
	stripepaymentintent "github.com/stripe/stripe-go/v81/paymentintent"
	striperefund "github.com/stripe/stripe-go/v81/refund"
	stripesubscription "github.com/stripe/stripe-go/v81/subscription"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// Metadata keys attached to payment intents and subscriptions. The webhook
// processor reads them back to locate the donation.
const (
	MetadataCampaignID  = "campaignId"
	MetadataDonationRef = "donationRef"
	MetadataUserID      = "userId"
	MetadataAnonymous   = "anonymous"
	MetadataMessage     = "message"
)

// PaymentRequest describes a one-off charge. Amounts are in minor units.
type PaymentRequest struct {
	Amount          int64
	Currency        string
	PaymentMethodID string
	ReceiptEmail    string
	IdempotencyKey  string
	CampaignID      string
	DonationRef     string
	UserID          string
	IsAnonymous     bool
}

// PaymentResult is the outcome of a gateway operation.
type PaymentResult struct {
	Success       bool
	TransactionID string
	Status        string
	ErrorMessage  string
}

// SubscriptionRequest describes a monthly recurring donation. DonationRef is
// the stored donation the first invoice completes.
type SubscriptionRequest struct {
	Email           string
	Name            string
	PaymentMethodID string
	Amount          int64
	Currency        string
	CampaignID      string
	DonationRef     string
	UserID          string
	IsAnonymous     bool
	Message         string
	IdempotencyKey  string
}

// SubscriptionResult is the outcome of CreateSubscription.
type SubscriptionResult struct {
	SubscriptionID string
	CustomerID     string
	Status         string
}

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config *Config
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config *Config) *Client {
	stripeapi.Key = config.APIKey
	return &Client{config: config}
}

// ValidateWebhookEvent validates and parses a webhook event
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEvent(payload, signatureHeader, c.config.WebhookSecret)
	if err != nil {
		return nil, NewStripeError(ErrWebhookValidation.Code, ErrWebhookValidation.Message, err)
	}
	return &event, nil
}

// ProcessPayment creates and confirms a payment intent. A declined payment
// method is not an error: the result carries Success=false and the message
// returned by the gateway.
func (*Client) ProcessPayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error) {
	if req.Amount <= 0 {
		return nil, NewStripeError("invalid_request", "amount must be positive", nil)
	}
	params := &stripeapi.PaymentIntentParams{
		Amount:   stripeapi.Int64(req.Amount),
		Currency: stripeapi.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	if req.PaymentMethodID != "" {
		params.PaymentMethod = stripeapi.String(req.PaymentMethodID)
		params.Confirm = stripeapi.Bool(true)
		params.AutomaticPaymentMethods = &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripeapi.Bool(true),
			AllowRedirects: stripeapi.String("never"),
		}
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripeapi.String(req.ReceiptEmail)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.AddMetadata(MetadataCampaignID, req.CampaignID)
	if req.DonationRef != "" {
		params.AddMetadata(MetadataDonationRef, req.DonationRef)
	}
	if req.UserID != "" {
		params.AddMetadata(MetadataUserID, req.UserID)
	}
	params.AddMetadata(MetadataAnonymous, fmt.Sprintf("%t", req.IsAnonymous))

	intent, err := stripepaymentintent.New(params)
	if err != nil {
		serr := NewStripeError(ErrAPICallFailed.Code, "failed to create payment intent", err)
		if serr.Code == "card_error" {
			result := &PaymentResult{Status: "failed", ErrorMessage: serr.Message}
			var apiErr *stripeapi.Error
			if errors.As(err, &apiErr) && apiErr.PaymentIntent != nil {
				result.TransactionID = apiErr.PaymentIntent.ID
			}
			return result, nil
		}
		return nil, serr
	}
	return paymentResultFromIntent(intent), nil
}

func paymentResultFromIntent(intent *stripeapi.PaymentIntent) *PaymentResult {
	result := &PaymentResult{
		TransactionID: intent.ID,
		Status:        string(intent.Status),
	}
	switch intent.Status {
	case stripeapi.PaymentIntentStatusSucceeded,
		stripeapi.PaymentIntentStatusProcessing,
		stripeapi.PaymentIntentStatusRequiresAction,
		stripeapi.PaymentIntentStatusRequiresConfirmation,
		stripeapi.PaymentIntentStatusRequiresCapture:
		result.Success = true
	default:
		if intent.LastPaymentError != nil {
			result.ErrorMessage = intent.LastPaymentError.Msg
		} else {
			result.ErrorMessage = fmt.Sprintf("payment intent in status %s", intent.Status)
		}
	}
	return result
}

// CancelPayment cancels a payment intent that has not completed yet.
func (*Client) CancelPayment(ctx context.Context, transactionID string) (*PaymentResult, error) {
	params := &stripeapi.PaymentIntentCancelParams{
		CancellationReason: stripeapi.String(string(stripeapi.PaymentIntentCancellationReasonRequestedByCustomer)),
	}
	params.Context = ctx
	intent, err := stripepaymentintent.Cancel(transactionID, params)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to cancel payment intent", err)
	}
	return &PaymentResult{
		Success:       intent.Status == stripeapi.PaymentIntentStatusCanceled,
		TransactionID: intent.ID,
		Status:        string(intent.Status),
	}, nil
}

// RefundPayment refunds the full amount of a payment intent.
func (*Client) RefundPayment(ctx context.Context, transactionID, idempotencyKey string) (*PaymentResult, error) {
	params := &stripeapi.RefundParams{
		PaymentIntent: stripeapi.String(transactionID),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}
	refund, err := striperefund.New(params)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to refund payment", err)
	}
	result := &PaymentResult{
		TransactionID: refund.ID,
		Status:        string(refund.Status),
	}
	switch refund.Status {
	case stripeapi.RefundStatusSucceeded, stripeapi.RefundStatusPending:
		result.Success = true
	default:
		result.ErrorMessage = fmt.Sprintf("refund in status %s", refund.Status)
	}
	return result, nil
}

// CreateSubscription creates (or reuses) the customer of the given email and
// subscribes it to a monthly price of the configured donation product.
func (c *Client) CreateSubscription(ctx context.Context, req *SubscriptionRequest) (*SubscriptionResult, error) {
	if c.config.DonationProductID == "" {
		return nil, ErrInvalidConfiguration.withMessage("donation product is not configured")
	}
	if req.Amount <= 0 {
		return nil, NewStripeError("invalid_request", "amount must be positive", nil)
	}
	customer, err := c.customerByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}
	if customer == nil {
		cparams := &stripeapi.CustomerParams{
			Email: stripeapi.String(req.Email),
		}
		cparams.Context = ctx
		if req.Name != "" {
			cparams.Name = stripeapi.String(req.Name)
		}
		if req.PaymentMethodID != "" {
			cparams.PaymentMethod = stripeapi.String(req.PaymentMethodID)
			cparams.InvoiceSettings = &stripeapi.CustomerInvoiceSettingsParams{
				DefaultPaymentMethod: stripeapi.String(req.PaymentMethodID),
			}
		}
		if customer, err = stripecustomer.New(cparams); err != nil {
			return nil, NewStripeError(ErrAPICallFailed.Code, "failed to create customer", err)
		}
	}

	params := &stripeapi.SubscriptionParams{
		Customer: stripeapi.String(customer.ID),
		Items: []*stripeapi.SubscriptionItemsParams{{
			PriceData: &stripeapi.SubscriptionItemPriceDataParams{
				Currency:   stripeapi.String(strings.ToLower(req.Currency)),
				Product:    stripeapi.String(c.config.DonationProductID),
				UnitAmount: stripeapi.Int64(req.Amount),
				Recurring: &stripeapi.SubscriptionItemPriceDataRecurringParams{
					Interval: stripeapi.String(string(stripeapi.PriceRecurringIntervalMonth)),
				},
			},
		}},
	}
	params.Context = ctx
	if req.PaymentMethodID != "" {
		params.DefaultPaymentMethod = stripeapi.String(req.PaymentMethodID)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.AddMetadata(MetadataCampaignID, req.CampaignID)
	if req.DonationRef != "" {
		params.AddMetadata(MetadataDonationRef, req.DonationRef)
	}
	params.AddMetadata(MetadataAnonymous, fmt.Sprintf("%t", req.IsAnonymous))
	if req.UserID != "" {
		params.AddMetadata(MetadataUserID, req.UserID)
	}
	if req.Message != "" {
		params.AddMetadata(MetadataMessage, req.Message)
	}
	sub, err := stripesubscription.New(params)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, "failed to create subscription", err)
	}
	return &SubscriptionResult{
		SubscriptionID: sub.ID,
		CustomerID:     customer.ID,
		Status:         string(sub.Status),
	}, nil
}

// CancelSubscription cancels a subscription immediately.
func (*Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripeapi.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := stripesubscription.Cancel(subscriptionID, params); err != nil {
		return NewStripeError(ErrAPICallFailed.Code, "failed to cancel subscription", err)
	}
	return nil
}

// customerByEmail retrieves a customer by email address
func (*Client) customerByEmail(ctx context.Context, email string) (*stripeapi.Customer, error) {
	params := &stripeapi.CustomerListParams{
		Email: stripeapi.String(email),
	}
	params.Context = ctx
	customers := stripecustomer.List(params)
	if !customers.Next() {
		if err := customers.Err(); err != nil {
			return nil, NewStripeError(ErrAPICallFailed.Code, "failed to list customers", err)
		}
		return nil, ErrCustomerNotFound.withMessage(fmt.Sprintf("customer with email %s not found", email))
	}
	return customers.Customer(), nil
}
