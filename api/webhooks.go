package api

import (
	goerrors "errors"
	"io"
	"net/http"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// maxWebhookBodySize is the largest Stripe event payload accepted.
const maxWebhookBodySize = 65536

// stripeWebhookHandler processes the Stripe webhook events. Events with a bad
// signature or an unusable payload are answered with 400 so Stripe does not
// retry them; processing failures are answered with 500 so it does.
func (a *API) stripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if a.stripe == nil {
		errors.ErrServiceUnavailable.With("payments are not configured").Write(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warnw("stripe webhook: could not read body", "error", err)
		errors.ErrInvalidWebhookEvent.WithErr(err).Write(w)
		return
	}
	if err := a.stripe.HandleWebhookEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		switch {
		case goerrors.Is(err, stripe.ErrWebhookValidation),
			goerrors.Is(err, stripe.ErrInvalidEvent),
			goerrors.Is(err, stripe.ErrMissingMetadata):
			errors.ErrInvalidWebhookEvent.WithErr(err).Write(w)
		default:
			errors.ErrStripeWebhookError.WithErr(err).Write(w)
		}
		return
	}
	apicommon.HTTPWriteOK(w)
}
