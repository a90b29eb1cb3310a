// Package validator wraps go-playground/validator with the custom rules of
// the API request models (phone numbers, currencies, languages and object
// ids) and an HTTP middleware that decodes and validates request bodies.
package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/raiseyourvoice/backend/internal"
)

var (
	// languageRegex matches ISO 639-1 codes with an optional region.
	languageRegex = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
	// objectIDRegex matches the hex representation of an ObjectID.
	objectIDRegex = regexp.MustCompile(`^[0-9a-f]{24}$`)
)

// SupportedCurrencies lists the ISO 4217 currencies donations can be made in.
var SupportedCurrencies = map[string]bool{
	"usd": true,
	"eur": true,
	"gbp": true,
	"cad": true,
	"aud": true,
	"mxn": true,
}

// Validator is a wrapper around the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("currency", validateCurrency)
	_ = v.RegisterValidation("lang", validateLanguage)
	_ = v.RegisterValidation("objectid", validateObjectID)
	return &Validator{
		validator: v,
	}
}

// Validate validates a struct using the validator package.
func (v *Validator) Validate(s any) error {
	return v.validator.Struct(s)
}

// validatePhone validates a phone number. Numbers without country prefix are
// parsed with the default country.
func validatePhone(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	_, err := internal.SanitizeAndVerifyPhoneNumber(fl.Field().String())
	return err == nil
}

// validateCurrency accepts the supported currencies in any case.
func validateCurrency(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	return SupportedCurrencies[strings.ToLower(fl.Field().String())]
}

func validateLanguage(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	return languageRegex.MatchString(fl.Field().String())
}

func validateObjectID(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}
	return objectIDRegex.MatchString(fl.Field().String())
}
