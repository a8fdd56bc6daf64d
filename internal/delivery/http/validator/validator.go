// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	domainerrors "market/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

type echoValidator struct {
	validate *validator.Validate
}

// New builds the validator installed on the echo server. Struct tags on the
// usecase input DTOs drive the rules.
func New() *echoValidator {
	return &echoValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Failures surface as the standard
// validation error so the central error handler renders them uniformly.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
