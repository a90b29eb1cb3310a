package api

import (
	goerrors "errors"
	"net/http"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
)

// writeStorageError translates the errors of the db package into API errors.
// ErrNotFound is reported as notFound.
func writeStorageError(w http.ResponseWriter, err error, notFound errors.Error) {
	switch {
	case goerrors.Is(err, db.ErrNotFound):
		notFound.Write(w)
	case goerrors.Is(err, db.ErrAlreadyExists):
		errors.ErrDuplicateConflict.Write(w)
	case goerrors.Is(err, db.ErrInvalidData):
		errors.ErrInvalidData.WithErr(err).Write(w)
	case goerrors.Is(err, db.ErrUpdateWouldOverwrite):
		errors.ErrConcurrentUpdate.Write(w)
	default:
		apicommon.HTTPWriteError(w, err)
	}
}

// objectIDFromBody parses an optional ObjectID field of a request body.
func objectIDFromBody(raw, field string) (internal.ObjectID, error) {
	if raw == "" {
		return internal.NilObjectID, nil
	}
	id, err := internal.ObjectIDFromHex(raw)
	if err != nil {
		return internal.NilObjectID, errors.ErrMalformedBody.Withf("invalid %s", field)
	}
	return id, nil
}
