package api

import (
	goerrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/validator"
)

// languagesHandler returns the supported language codes, the default first.
func (a *API) languagesHandler(w http.ResponseWriter, _ *http.Request) {
	apicommon.HTTPWriteJSON(w, map[string][]string{"languages": a.localization.SupportedLanguages()})
}

// localizedStringsHandler returns every string of a language, completed with
// the default language values.
func (a *API) localizedStringsHandler(w http.ResponseWriter, r *http.Request) {
	strings, err := a.localization.GetAll(r.Context(), chi.URLParam(r, "lang"))
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, strings)
}

// localizedStringHandler returns a localized string. Missing keys are
// answered with 404 carrying the key itself as the value, so clients can
// render it.
func (a *API) localizedStringHandler(w http.ResponseWriter, r *http.Request) {
	lang, key := chi.URLParam(r, "lang"), chi.URLParam(r, "key")
	value, err := a.localization.GetString(r.Context(), key, lang)
	if err != nil {
		if goerrors.Is(err, errors.ErrLocalizationNotFound) {
			errors.ErrLocalizationNotFound.WithData(&LocalizedStringResponse{
				Key: key, Language: lang, Value: value,
			}).Write(w)
			return
		}
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, &LocalizedStringResponse{Key: key, Language: lang, Value: value})
}

// setLocalizedStringHandler stores a localized string (admin only).
func (a *API) setLocalizedStringHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.Model[LocalizedStringRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	lang, key := chi.URLParam(r, "lang"), chi.URLParam(r, "key")
	if err := a.localization.SetString(r.Context(), key, lang, req.Value); err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, &LocalizedStringResponse{Key: key, Language: lang, Value: req.Value})
}

// deleteLocalizedStringHandler removes a localized string (admin only).
func (a *API) deleteLocalizedStringHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.localization.DeleteString(r.Context(), chi.URLParam(r, "key"), chi.URLParam(r, "lang")); err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteOK(w)
}
