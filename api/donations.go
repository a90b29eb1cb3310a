package api

import (
	"net/http"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/donations"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/validator"
)

// donationRequestFromHTTP builds the service request of a validated body. The
// Idempotency-Key header takes precedence over the body field.
func donationRequestFromHTTP(r *http.Request) (*donations.DonationRequest, error) {
	req, ok := validator.Model[DonationRequest](r)
	if !ok {
		return nil, errors.ErrMalformedBody
	}
	campaignID, err := internal.ObjectIDFromHex(req.CampaignID)
	if err != nil {
		return nil, errors.ErrMalformedBody.With("invalid campaignId")
	}
	key := req.IdempotencyKey
	if header := r.Header.Get(apicommon.IdempotencyKeyHeader); header != "" {
		key = header
	}
	return &donations.DonationRequest{
		CampaignID:      campaignID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		PaymentMethodID: req.PaymentMethodID,
		IsAnonymous:     req.IsAnonymous,
		Message:         req.Message,
		IdempotencyKey:  key,
	}, nil
}

// createDonationHandler charges a one-off donation to an Active campaign.
func (a *API) createDonationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, err := donationRequestFromHTTP(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	donation, err := a.donations.CreateDonation(r.Context(), user, req)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, donation)
}

// createSubscriptionDonationHandler subscribes the current user to a monthly
// donation.
func (a *API) createSubscriptionDonationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, err := donationRequestFromHTTP(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	donation, err := a.donations.CreateSubscriptionDonation(r.Context(), user, req)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, donation)
}

// donationHandler returns a donation. Anonymous donors are only visible to
// themselves and to administrators.
func (a *API) donationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	a.donationAction(w, r, func(id internal.ObjectID) (*db.Donation, error) {
		return a.donations.Donation(r.Context(), user, id)
	})
}

// refundDonationHandler refunds a Completed donation.
func (a *API) refundDonationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	a.donationAction(w, r, func(id internal.ObjectID) (*db.Donation, error) {
		return a.donations.RefundDonation(r.Context(), user, id)
	})
}

// cancelDonationHandler cancels a Pending donation or a subscription.
func (a *API) cancelDonationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	a.donationAction(w, r, func(id internal.ObjectID) (*db.Donation, error) {
		return a.donations.CancelDonation(r.Context(), user, id)
	})
}

func (a *API) donationAction(w http.ResponseWriter, r *http.Request,
	action func(id internal.ObjectID) (*db.Donation, error),
) {
	id, err := apicommon.ObjectIDFromRequest(r, "donationId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	donation, err := action(id)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, donation)
}
