package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/validator"
	"go.vocdoni.io/dvote/log"
)

// userInfoHandler handles the request to get the information of the current
// authenticated user.
func (a *API) userInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, a.userInfoFromDB(r.Context(), user))
}

// updateUserInfoHandler updates the profile of the current user. Only the
// non-empty fields of the request are changed.
func (a *API) updateUserInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, ok := validator.Model[UpdateUserRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	update := &db.User{
		ID:                user.ID,
		Email:             user.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PreferredLanguage: req.PreferredLanguage,
	}
	if req.Phone != "" {
		phone, err := a.auth.EncryptPhone(r.Context(), req.Phone)
		if err != nil {
			apicommon.HTTPWriteError(w, err)
			return
		}
		update.Phone = phone
	}
	if _, err := a.db.SetUser(r.Context(), update); err != nil {
		writeStorageError(w, err, errors.ErrUserNotFound)
		return
	}
	updated, err := a.db.User(r.Context(), user.ID)
	if err != nil {
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	log.Debugw("user profile updated", "userID", user.ID.String())
	apicommon.HTTPWriteJSON(w, a.userInfoFromDB(r.Context(), updated))
}

// updateUserPasswordHandler changes the password of the current user. Every
// refresh token of the user is revoked.
func (a *API) updateUserPasswordHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, ok := validator.Model[ChangePasswordRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.auth.ChangePassword(r.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// userDonationsHandler lists the donations of the current user.
func (a *API) userDonationsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	page, pageSize, err := apicommon.PaginationFromRequest(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	total, donations, err := a.donations.UserDonations(r.Context(), user.ID, page, pageSize)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, &ListResponse[db.Donation]{
		Total: total, Page: page, PageSize: pageSize, Items: donations,
	})
}

// registerDeviceHandler registers a push notification device of the current
// user. Registering the same token twice is a no-op.
func (a *API) registerDeviceHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, ok := validator.Model[DeviceRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.notifications.RegisterDevice(r.Context(), user.ID, req.Token, req.Platform); err != nil {
		writeStorageError(w, err, errors.ErrUserNotFound)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// unregisterDeviceHandler removes a push notification device of the current
// user.
func (a *API) unregisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	token := chi.URLParam(r, "token")
	if token == "" {
		errors.ErrMalformedURLParam.With("missing device token").Write(w)
		return
	}
	if err := a.notifications.UnregisterDevice(r.Context(), user.ID, token); err != nil {
		writeStorageError(w, err, errors.ErrUserNotFound)
		return
	}
	apicommon.HTTPWriteOK(w)
}
