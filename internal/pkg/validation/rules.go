package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/buspass/internal/app/models/dto"
)

// Messages shown next to form fields
const (
	MsgRequired      = "This field is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidDate   = "Enter a valid date."
	MsgWholeNumber   = "Enter a whole number."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the HTML field name rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct runs the `validate` tags of a form and returns field errors, or
// nil when the form is clean.
func Struct(form interface{}) *dto.ValidationErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	errs := dto.NewValidationErrors()
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.AddError(dto.NonFieldErrors, err.Error())
	}
	for _, fe := range fieldErrs {
		errs.AddError(fe.Field(), formatValidationError(fe))
	}
	return errs
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", e.Param(), length(e.Value()))
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).", e.Param(), length(e.Value()))
	case "email":
		return MsgInvalidEmail
	default:
		return "Enter a valid value."
	}
}

func length(v interface{}) int {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s)
	}
	return 0
}

// MinValue is the message for numbers below a lower bound
func MinValue(min int) string {
	return fmt.Sprintf("Ensure this value is greater than or equal to %d.", min)
}
