// Package validation checks request inputs against their validate struct tags
// and reports failures as connect InvalidArgument errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/stolasapp/todo/internal/storage"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return storage.ValidUsername(fl.Field().String())
	})
	return v
}

// Struct validates in, returning a connect InvalidArgument error naming every
// failing field, or nil.
func Struct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return connect.NewError(connect.CodeInternal, fmt.Errorf("failed to validate input: %w", err))
	}
	msgs := make([]string, len(fieldErrs))
	for i, fieldErr := range fieldErrs {
		msgs[i] = describe(fieldErr)
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(msgs, "; ")))
}

func describe(fieldErr validator.FieldError) string {
	field, param := fieldErr.Field(), fieldErr.Param()
	isString := fieldErr.Kind() == reflect.String
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "email":
		return field + " must be a valid email address"
	case "username":
		return field + " must be 3-64 characters, alphanumeric and underscores only"
	default:
		return fmt.Sprintf("%s failed the %q check", field, fieldErr.Tag())
	}
}

// Messages returns the individual field messages of a validation error, for
// display next to a form.
func Messages(err error) []string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) || connectErr.Code() != connect.CodeInvalidArgument {
		return nil
	}
	return strings.Split(connectErr.Message(), "; ")
}
