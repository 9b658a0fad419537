package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request DTOs.
type CustomValidator struct {
	v *validator.Validate
}

// New builds the validator used for analysis and feedback request DTOs
func New() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

// Validate checks the struct tags of a bound request and reports any
// violations
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
