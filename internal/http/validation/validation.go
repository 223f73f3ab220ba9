// Package validation builds the request validator used by handlers
// that accept a new password, with the custom password-strength rule
// registered.
package validation

import (
	"github.com/go-playground/validator"

	"github.com/skyfuel-aero/skyfuel-platform/internal/services/auth"
)

// New returns a validator with the "password" rule registered: at
// least 8 characters with one lowercase letter, one uppercase letter
// and one digit.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return auth.CheckPasswordComplexity(fl.Field().String()) == nil
	})
	return v
}
