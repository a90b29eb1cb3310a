package stripe

import (
	"errors"
	"fmt"
	"net/http"

	stripeapi "github.com/stripe/stripe-go/v81"
)

// StripeError represents a Stripe-specific error
type StripeError struct {
	Code    string
	Message string
	Type    string
	Err     error
}

func (e *StripeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.Err
}

// Is matches errors with the same code, so wrapped instances of the sentinels
// below are found with errors.Is.
func (e *StripeError) Is(target error) bool {
	t, ok := target.(*StripeError)
	return ok && t.Code == e.Code
}

func (e *StripeError) withMessage(msg string) *StripeError {
	return &StripeError{Code: e.Code, Message: msg, Type: e.Type, Err: e.Err}
}

// Common Stripe errors
var (
	ErrInvalidEvent          = &StripeError{Code: "invalid_event", Message: "invalid webhook event"}
	ErrEventAlreadyProcessed = &StripeError{Code: "event_already_processed", Message: "webhook event already processed"}
	ErrMissingMetadata       = &StripeError{Code: "missing_metadata", Message: "event has no donation metadata"}
	ErrCustomerNotFound      = &StripeError{Code: "customer_not_found", Message: "stripe customer not found"}
	ErrInvalidConfiguration  = &StripeError{Code: "invalid_configuration", Message: "invalid stripe configuration"}
	ErrAPICallFailed         = &StripeError{Code: "api_call_failed", Message: "stripe API call failed"}
	ErrWebhookValidation     = &StripeError{Code: "webhook_validation", Message: "webhook signature validation failed"}
)

// NewStripeError creates a new StripeError with the given code, message, and underlying error
func NewStripeError(code, message string, err error) *StripeError {
	se := &StripeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
	var apiErr *stripeapi.Error
	if errors.As(err, &apiErr) {
		se.Type = string(apiErr.Type)
		if apiErr.Msg != "" {
			se.Message = apiErr.Msg
		}
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.Code == stripeapi.ErrorCodeRateLimit:
			se.Code = "rate_limit_error"
		case apiErr.Type == stripeapi.ErrorTypeCard:
			se.Code = "card_error"
		case apiErr.Type == stripeapi.ErrorTypeInvalidRequest || apiErr.Type == stripeapi.ErrorTypeIdempotency:
			se.Code = "invalid_request"
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			se.Code = "temporary_error"
		}
	}
	return se
}

// IsRetryableError determines if an error is retryable
func IsRetryableError(err error) bool {
	var stripeErr *StripeError
	if errors.As(err, &stripeErr) {
		switch stripeErr.Code {
		case "api_call_failed", "rate_limit_error", "temporary_error":
			return true
		default:
			return false
		}
	}
	return false
}

// IsCardError reports whether the gateway declined the payment method. The
// message of such errors is safe to show to the donor.
func IsCardError(err error) bool {
	var stripeErr *StripeError
	if errors.As(err, &stripeErr) {
		return stripeErr.Type == string(stripeapi.ErrorTypeCard)
	}
	return false
}
