package api

import (
	"context"
	"net/http"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/auth"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/validator"
	"go.vocdoni.io/dvote/log"
)

// userInfoFromDB builds the public representation of the user with the
// phone number decrypted.
func (a *API) userInfoFromDB(ctx context.Context, user *db.User) *UserInfo {
	phone, err := a.auth.Phone(ctx, user)
	if err != nil {
		log.Warnw("could not decrypt user phone", "userID", user.ID.String(), "error", err)
		phone = ""
	}
	return &UserInfo{
		ID:                user.ID,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Phone:             phone,
		Role:              user.Role,
		PreferredLanguage: user.PreferredLanguage,
		CreatedAt:         user.CreatedAt,
	}
}

func (a *API) writeAuthResponse(w http.ResponseWriter, r *http.Request, user *db.User, tokens *auth.TokenPair) {
	apicommon.HTTPWriteJSON(w, &AuthResponse{
		User:             a.userInfoFromDB(r.Context(), user),
		AccessToken:      tokens.AccessToken,
		ExpiresAt:        tokens.ExpiresAt,
		RefreshToken:     tokens.RefreshToken,
		RefreshExpiresAt: tokens.RefreshExpiresAt,
	})
}

// registerHandler creates a new regular user and logs it in.
func (a *API) registerHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.Model[RegisterRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	user, tokens, err := a.auth.Register(r.Context(), &auth.Registration{
		Email:             req.Email,
		Password:          req.Password,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Phone:             req.Phone,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	a.writeAuthResponse(w, r, user, tokens)
}

// loginHandler checks the credentials and returns a new token pair.
func (a *API) loginHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.Model[LoginRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	user, tokens, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	a.writeAuthResponse(w, r, user, tokens)
}

// refreshHandler rotates the refresh token and issues a new access token.
func (a *API) refreshHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.Model[RefreshRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	user, tokens, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	a.writeAuthResponse(w, r, user, tokens)
}

// logoutHandler revokes the refresh token. Unknown tokens are accepted.
func (a *API) logoutHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.Model[RefreshRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteOK(w)
}
