package apicommon

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"go.vocdoni.io/dvote/log"
)

// UserFromContext retrieves the user from the context provided, expected to be
// the context of a request handled by the authenticator middleware.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	rawUser, ok := ctx.Value(UserMetadataKey).(db.User)
	if ok {
		return &rawUser, ok
	}
	return nil, false
}

// ContextWithUser returns a copy of the context carrying the user.
func ContextWithUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, UserMetadataKey, *user)
}

// ObjectIDFromRequest extracts and validates an ObjectID URL parameter.
func ObjectIDFromRequest(r *http.Request, param string) (internal.ObjectID, error) {
	id, err := internal.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		return internal.NilObjectID, errors.ErrMalformedURLParam.Withf("invalid %s", param)
	}
	return id, nil
}

// ObjectIDFromQuery parses an optional ObjectID query parameter.
func ObjectIDFromQuery(r *http.Request, param string) (internal.ObjectID, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return internal.NilObjectID, nil
	}
	id, err := internal.ObjectIDFromHex(raw)
	if err != nil {
		return internal.NilObjectID, errors.ErrMalformedURLParam.Withf("invalid %s", param)
	}
	return id, nil
}

// PaginationFromRequest reads the page (1-based) and pageSize query
// parameters. The page size is capped at MaxPageSize and pages past the
// int64 range of the listing offset are rejected.
func PaginationFromRequest(r *http.Request) (int64, int64, error) {
	page, pageSize := int64(1), int64(DefaultPageSize)
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errors.ErrMalformedURLParam.With("invalid page")
		}
		page = p
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		s, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || s < 1 {
			return 0, 0, errors.ErrMalformedURLParam.With("invalid pageSize")
		}
		pageSize = min(s, MaxPageSize)
	}
	if !pageInRange(page, pageSize) {
		return 0, 0, errors.ErrMalformedURLParam.With("page out of range")
	}
	return page, pageSize, nil
}

// NormalizePagination applies the listing defaults to the page and page size
// of a non HTTP caller: values below one take the default, the page size is
// capped at MaxPageSize and pages out of range are rejected.
func NormalizePagination(page, pageSize int64) (int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)
	if !pageInRange(page, pageSize) {
		return 0, 0, errors.ErrInvalidData.With("page out of range")
	}
	return page, pageSize, nil
}

// pageInRange reports whether the offset of the page, (page-1)*pageSize,
// fits in an int64.
func pageInRange(page, pageSize int64) bool {
	return page <= math.MaxInt64/pageSize
}

// HTTPWriteError writes the error response. Errors that are not an
// errors.Error are reported as internal errors.
func HTTPWriteError(w http.ResponseWriter, err error) {
	var apiErr errors.Error
	if goerrors.As(err, &apiErr) {
		apiErr.Write(w)
		return
	}
	errors.ErrGenericInternalServerError.WithErr(err).Write(w)
}

// HTTPWriteJSON helper function allows to write a JSON response.
func HTTPWriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// HTTPWriteOK helper function allows to write an OK response.
func HTTPWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}
