// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// PositiveID validates that an int64 identifier is strictly positive.
type PositiveID struct{}

// Validate checks that the value is an int64 greater than zero.
func (PositiveID) Validate(value interface{}) error {
	id, ok := value.(int64)
	if !ok {
		return validation.NewError("validation_positive_id", "must be an integer identifier")
	}
	if id <= 0 {
		return validation.NewError("validation_positive_id", "must be a positive integer")
	}
	return nil
}
