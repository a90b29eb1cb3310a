package validator

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/raiseyourvoice/backend/errors"
	"go.vocdoni.io/dvote/log"
)

// maxBodySize caps the size of validated JSON bodies.
const maxBodySize = 1 << 20

// ValidatedModelKey is the context key of the decoded and validated body.
type ValidatedModelKey struct{}

// ValidationError represents an individual validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a slice of ValidationError.
type ValidationErrors []ValidationError

// Error returns a string representation of the validation errors.
func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// ValidateMiddleware decodes the JSON request body into a new instance of the
// model type and validates it. Invalid bodies are answered with
// ErrMalformedBody listing the failing fields; valid ones are stored in the
// request context for the handler (see Model).
func (v *Validator) ValidateMiddleware(model any) func(next http.Handler) http.Handler {
	modelType := reflect.TypeOf(model)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			instance := reflect.New(modelType).Interface()
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
			if err != nil {
				errors.ErrMalformedBody.Write(w)
				return
			}
			if err := json.Unmarshal(body, instance); err != nil {
				errors.ErrMalformedBody.WithErr(err).Write(w)
				return
			}
			if err := v.validator.Struct(instance); err != nil {
				var fieldErrs validator.ValidationErrors
				if !stderrors.As(err, &fieldErrs) {
					errors.ErrMalformedBody.WithErr(err).Write(w)
					return
				}
				validationErrors := ValidationErrors{}
				for _, fieldErr := range fieldErrs {
					validationErrors = append(validationErrors, ValidationError{
						Field:   fieldErr.Field(),
						Message: getErrorMessage(fieldErr),
					})
				}
				log.Debugw("validation errors", "path", r.URL.Path, "errors", validationErrors.Error())
				errors.ErrMalformedBody.WithErr(validationErrors).WithData(validationErrors).Write(w)
				return
			}
			ctx := context.WithValue(r.Context(), ValidatedModelKey{}, instance)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Model returns the validated body stored by ValidateMiddleware.
func Model[T any](r *http.Request) (*T, bool) {
	model, ok := r.Context().Value(ValidatedModelKey{}).(*T)
	return model, ok
}

// getErrorMessage returns a human-readable error message for a validation error.
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", err.Param())
	case "url":
		return "Invalid URL format"
	case "phone":
		return "Invalid phone number"
	case "currency":
		return "Unsupported currency"
	case "lang":
		return "Invalid language code"
	case "objectid":
		return "Invalid identifier"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", err.Param())
	default:
		return fmt.Sprintf("Invalid value: %s", err.Tag())
	}
}
