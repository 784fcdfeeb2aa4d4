// Package validator plugs the shared struct validator into echo.
package validator

import (
	"rentalhub/internal/domain/validation"

	"github.com/labstack/echo/v4"
)

type requestValidator struct{}

// New returns an echo.Validator whose failures are domain ValidationErrors.
func New() echo.Validator {
	return &requestValidator{}
}

func (v *requestValidator) Validate(i any) error {
	return validation.Struct(i)
}
