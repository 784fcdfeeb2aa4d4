// Package validation runs struct-tag validation for entities and request DTOs and
// converts failures into domain ValidationErrors.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field names in messages follow the json tags.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}

			return name
		})
		instance = v
	})

	return instance
}

// Struct validates s and returns a *domainerrors.ValidationError listing every failed field.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate struct")
	}

	fields := make([]domainerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}

	return domainerrors.NewValidationError(fields...)
}

// Fail builds a single-field ValidationError.
func Fail(field, msg string) error {
	return domainerrors.NewValidationError(domainerrors.FieldError{Field: field, Message: msg})
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}

		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}

		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "containsany":
		return fmt.Sprintf("%s must contain at least one of %q", field, fe.Param())
	case "uuid", "uuid4", "uuid7":
		return fmt.Sprintf("%s must be a valid id", field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude", field)
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid value", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
