package rpc

import (
	goerrors "errors"
	"net/http"

	"github.com/raiseyourvoice/backend/errors"
	"go.vocdoni.io/dvote/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus converts a service error into a gRPC status error, using the HTTP
// status of the API error to pick the code.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var apiErr errors.Error
	if !goerrors.As(err, &apiErr) {
		log.Warnw("rpc: unexpected error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(codeFromHTTP(apiErr.HTTPstatus, apiErr.Code), apiErr.Error())
}

func codeFromHTTP(httpStatus, code int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		if code == errors.ErrDuplicateConflict.Code {
			return codes.AlreadyExists
		}
		return codes.FailedPrecondition
	case http.StatusPaymentRequired:
		return codes.FailedPrecondition
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	}
	if httpStatus >= 500 {
		return codes.Internal
	}
	return codes.Unknown
}
