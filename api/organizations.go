package api

import (
	"fmt"
	"net/http"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/validator"
	"go.vocdoni.io/dvote/log"
)

// createOrganizationHandler creates an organization owned by the current
// user. New organizations are pending verification.
func (a *API) createOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, ok := validator.Model[OrganizationRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	org := &db.Organization{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		OwnerID:     user.ID,
	}
	if _, err := a.db.SetOrganization(r.Context(), org); err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	log.Infow("organization created", "orgID", org.ID.String(), "owner", user.ID.String())
	apicommon.HTTPWriteJSON(w, org)
}

// organizationsHandler lists the organizations, optionally filtered by the
// status query parameter.
func (a *API) organizationsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := apicommon.PaginationFromRequest(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	status := db.VerificationStatus(r.URL.Query().Get("status"))
	switch status {
	case "", db.VerificationPending, db.VerificationVerified, db.VerificationRejected:
	default:
		errors.ErrMalformedURLParam.Withf("invalid status %q", status).Write(w)
		return
	}
	total, orgs, err := a.db.Organizations(r.Context(), status, page, pageSize)
	if err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	apicommon.HTTPWriteJSON(w, &ListResponse[db.Organization]{
		Total: total, Page: page, PageSize: pageSize, Items: orgs,
	})
}

// organizationHandler returns an organization.
func (a *API) organizationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := apicommon.ObjectIDFromRequest(r, "orgId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	org, err := a.db.Organization(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	apicommon.HTTPWriteJSON(w, org)
}

// ownedOrganization returns the organization of the URL if the user owns it
// or is an administrator. Errors are written to the response.
func (a *API) ownedOrganization(w http.ResponseWriter, r *http.Request, user *db.User) (*db.Organization, bool) {
	id, err := apicommon.ObjectIDFromRequest(r, "orgId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return nil, false
	}
	org, err := a.db.Organization(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return nil, false
	}
	if org.OwnerID != user.ID && !user.IsAdmin() {
		errors.ErrNotOwnerOfItem.Write(w)
		return nil, false
	}
	return org, true
}

// updateOrganizationHandler updates the profile of an organization. Only the
// owner and administrators can do it.
func (a *API) updateOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, ok := validator.Model[OrganizationRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	org, ok := a.ownedOrganization(w, r, user)
	if !ok {
		return
	}
	if _, err := a.db.SetOrganization(r.Context(), &db.Organization{
		ID:          org.ID,
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
	}); err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	updated, err := a.db.Organization(r.Context(), org.ID)
	if err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	apicommon.HTTPWriteJSON(w, updated)
}

// deleteOrganizationHandler removes an organization without campaigns.
func (a *API) deleteOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	org, ok := a.ownedOrganization(w, r, user)
	if !ok {
		return
	}
	if err := a.db.DelOrganization(r.Context(), org.ID); err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	log.Infow("organization deleted", "orgID", org.ID.String(), "by", user.ID.String())
	apicommon.HTTPWriteOK(w)
}

// verifyOrganizationHandler marks an organization as verified (admin only).
func (a *API) verifyOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	a.setOrganizationVerification(w, r, db.VerificationVerified, "")
}

// rejectOrganizationHandler rejects the verification of an organization
// (admin only). The reason is sent to the owner.
func (a *API) rejectOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.Model[ReasonRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	a.setOrganizationVerification(w, r, db.VerificationRejected, req.Reason)
}

func (a *API) setOrganizationVerification(w http.ResponseWriter, r *http.Request,
	status db.VerificationStatus, reason string,
) {
	id, err := apicommon.ObjectIDFromRequest(r, "orgId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	if err := a.db.SetOrganizationVerification(r.Context(), id, status, reason); err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	org, err := a.db.Organization(r.Context(), id)
	if err != nil {
		writeStorageError(w, err, errors.ErrOrganizationNotFound)
		return
	}
	a.notifyVerification(r, org)
	apicommon.HTTPWriteJSON(w, org)
}

func (a *API) notifyVerification(r *http.Request, org *db.Organization) {
	body := fmt.Sprintf("Your organization %s is now %s.", org.Name, org.VerificationStatus)
	if org.RejectionReason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, org.RejectionReason)
	}
	n := &db.Notification{
		Type:  db.NotificationOrganization,
		Title: "Organization verification",
		Body:  body,
		Data: map[string]string{
			"organizationId": org.ID.String(),
			"status":         string(org.VerificationStatus),
		},
	}
	if err := a.notifications.NotifyOrganizationOwner(r.Context(), org.ID, n); err != nil {
		log.Warnw("could not notify organization owner", "orgID", org.ID.String(), "error", err)
	}
}

