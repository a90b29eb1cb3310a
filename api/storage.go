package api

import (
	"net/http"

	"github.com/raiseyourvoice/backend/errors"
)

// uploadHandler uploads the images of a multipart form to the object
// storage.
func (a *API) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if a.objectStorage == nil {
		errors.ErrServiceUnavailable.With("object storage is not configured").Write(w)
		return
	}
	a.objectStorage.UploadImageWithFormHandler(w, r)
}
