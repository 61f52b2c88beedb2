// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	domainerrors "lookmarket/internal/domain/errors"

	playgroundvalidator "github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator instance for echo.
type CustomValidator struct {
	validate *playgroundvalidator.Validate
}

// New creates the validator echo uses for c.Validate calls.
func New() *CustomValidator {
	return &CustomValidator{validate: playgroundvalidator.New()}
}

// Validate runs struct tag validation and maps failures onto the shared
// validation error so the error middleware renders a 400 envelope.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	return nil
}
