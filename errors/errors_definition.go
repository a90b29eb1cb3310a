// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401, 403, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXXX or 5XXXX.
// If there is a gap in the numbering DON'T fill it in, that code was used in the past and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	// Authentication errors (401)
	ErrUnauthorized        = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required"), LogLevel: "info"}
	ErrInvalidCredentials  = Error{Code: 40002, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid email or password"), LogLevel: "info"}
	ErrInvalidRefreshToken = Error{Code: 40003, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid or expired refresh token"), LogLevel: "info"}

	// Permission errors (403)
	ErrForbidden      = Error{Code: 40301, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("operation not allowed for this user"), LogLevel: "info"}
	ErrAdminRequired  = Error{Code: 40302, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("administrator role required"), LogLevel: "info"}
	ErrNotOwnerOfItem = Error{Code: 40303, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("user does not own this resource"), LogLevel: "info"}

	// Validation errors (400)
	ErrEmailMalformed          = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid email format")}
	ErrPasswordTooShort        = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("password must be at least 8 characters")}
	ErrMalformedBody           = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrInvalidUserData         = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid user information provided")}
	ErrMalformedURLParam       = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrInvalidOrganizationData = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid organization information provided")}
	ErrInvalidCampaignData     = Error{Code: 40016, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid campaign information provided")}
	ErrInvalidDonationData     = Error{Code: 40017, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid donation information provided")}
	ErrInvalidAmount           = Error{Code: 40018, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("amount must be greater than zero")}
	ErrCampaignNotActive       = Error{Code: 40019, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("campaign is not accepting donations"), LogLevel: "info"}
	ErrPaymentFailed           = Error{Code: 40020, HTTPstatus: http.StatusPaymentRequired, Err: fmt.Errorf("payment failed"), LogLevel: "info"}
	ErrUnsupportedLanguage     = Error{Code: 40021, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("language not supported")}
	ErrStorageInvalidObject    = Error{Code: 40022, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid storage object or parameters")}
	ErrInvalidData             = Error{Code: 40023, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid data provided")}
	ErrInvalidPostData         = Error{Code: 40024, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid post information provided")}
	ErrInvalidCommentData      = Error{Code: 40025, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid comment information provided")}
	ErrInvalidWebhookEvent     = Error{Code: 40026, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid webhook event"), LogLevel: "warn"}

	// Not found errors (404)
	ErrUserNotFound         = Error{Code: 40401, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("user not found")}
	ErrOrganizationNotFound = Error{Code: 40402, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("organization not found")}
	ErrCampaignNotFound     = Error{Code: 40403, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("campaign not found")}
	ErrDonationNotFound     = Error{Code: 40404, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("donation not found")}
	ErrPostNotFound         = Error{Code: 40405, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("post not found")}
	ErrCommentNotFound      = Error{Code: 40406, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("comment not found")}
	ErrNotificationNotFound = Error{Code: 40407, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("notification not found")}
	ErrLocalizationNotFound = Error{Code: 40408, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("localized string not found")}

	// Conflict errors (409)
	ErrDuplicateConflict    = Error{Code: 40901, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("resource already exists")}
	ErrInvalidTransition    = Error{Code: 40902, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("invalid status transition"), LogLevel: "info"}
	ErrDonationNotRefunded  = Error{Code: 40903, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("donation cannot be refunded"), LogLevel: "info"}
	ErrConcurrentUpdate     = Error{Code: 40904, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("resource was modified concurrently, retry"), LogLevel: "info"}
	ErrCampaignNotFeaturing = Error{Code: 40905, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("only active campaigns can be featured"), LogLevel: "info"}

	// Server errors (500) - These should be used sparingly and only for true internal errors
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed"), LogLevel: "error"}
	ErrStripeError                = Error{Code: 50003, HTTPstatus: http.StatusBadGateway, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrInternalStorageError       = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed"), LogLevel: "error"}
	ErrStripeWebhookError         = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: stripe webhook failed"), LogLevel: "error"}
	ErrServiceUnavailable         = Error{Code: 50006, HTTPstatus: http.StatusServiceUnavailable, Err: fmt.Errorf("server error: service not available"), LogLevel: "error"}
)
