package objectstorage

import (
	goerrors "errors"
	"net/http"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/errors"
)

// maxFormMemory is the memory used to parse the multipart forms, the rest
// goes to temporary files.
const maxFormMemory = 32 << 20

// UploadImageWithFormHandler uploads the images of a multipart form. Every
// file of the form is uploaded; the "kind" field selects the folder (posts,
// campaigns or organizations) and defaults to posts. It responds with the
// URLs of the uploaded images.
func (c *Client) UploadImageWithFormHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.maxSize*4+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		errors.ErrStorageInvalidObject.Withf("could not parse form: %v", err).Write(w)
		return
	}
	kind := ObjectKind(r.FormValue("kind"))
	if kind == "" {
		kind = KindPost
	}
	if !validKinds[kind] {
		errors.ErrStorageInvalidObject.Withf("invalid kind %s", kind).Write(w)
		return
	}

	urls := []string{}
	for _, fileHeaders := range r.MultipartForm.File {
		for _, fileHeader := range fileHeaders {
			file, err := fileHeader.Open()
			if err != nil {
				errors.ErrStorageInvalidObject.Withf("cannot open file %s %v", fileHeader.Filename, err).Write(w)
				return
			}
			url, err := c.Put(r.Context(), file, kind, user.ID.String())
			_ = file.Close()
			if err != nil {
				if isClientError(err) {
					errors.ErrStorageInvalidObject.Withf("%s: %v", fileHeader.Filename, err).Write(w)
					return
				}
				errors.ErrInternalStorageError.Withf("%s: %v", fileHeader.Filename, err).Write(w)
				return
			}
			urls = append(urls, url)
		}
	}
	if len(urls) == 0 {
		errors.ErrStorageInvalidObject.With("no files found").Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, map[string][]string{"urls": urls})
}

func isClientError(err error) bool {
	return goerrors.Is(err, ErrorFileTypeNotSupported) ||
		goerrors.Is(err, ErrorObjectTooLarge) ||
		goerrors.Is(err, ErrorEmptyObject) ||
		goerrors.Is(err, ErrorInvalidKind)
}
