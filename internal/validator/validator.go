// Package validator adapts go-playground/validator to Echo's Validator
// interface and registers domain-specific validations.
package validator

import (
	"net/http"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// EchoValidator wraps a validator.Validate for use as echo.Validator
type EchoValidator struct {
	validate *validator.Validate
}

// New creates an EchoValidator with the custom validations registered
func New() *EchoValidator {
	v := validator.New()
	_ = v.RegisterValidation("cadence", validateCadence)
	_ = v.RegisterValidation("calc_type", validateCalcType)
	return &EchoValidator{validate: v}
}

// Validate implements echo.Validator
func (ev *EchoValidator) Validate(i interface{}) error {
	if err := ev.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func validateCadence(fl validator.FieldLevel) bool {
	return domain.Cadence(fl.Field().String()).Valid()
}

func validateCalcType(fl validator.FieldLevel) bool {
	return domain.CalcType(fl.Field().String()).Valid()
}
