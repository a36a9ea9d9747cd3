package dto

import (
	"strings"

	"github.com/yigit/buspass/internal/pkg/apperrors"
)

// NonFieldErrors is the key for messages that belong to the whole form
const NonFieldErrors = "__all__"

// ErrorDetail is one message attached to a form field
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field-level messages in the order they were found
type ValidationErrors struct {
	Errors []ErrorDetail `json:"errors"`
}

// NewValidationErrors creates a new validation errors container
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ErrorDetail, 0),
	}
}

// AddError adds a validation error to the container
func (v *ValidationErrors) AddError(field, message string) *ValidationErrors {
	v.Errors = append(v.Errors, ErrorDetail{Field: field, Message: message})
	return v
}

// Merge appends every message of other
func (v *ValidationErrors) Merge(other *ValidationErrors) *ValidationErrors {
	if other != nil {
		v.Errors = append(v.Errors, other.Errors...)
	}
	return v
}

// HasErrors checks if there are any validation errors
func (v *ValidationErrors) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// For returns the messages recorded against field
func (v *ValidationErrors) For(field string) []string {
	if v == nil {
		return nil
	}
	var out []string
	for _, e := range v.Errors {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// Error implements error so a failed validation can travel through %w chains
func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return apperrors.ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match apperrors.ErrValidationFailed
func (v *ValidationErrors) Unwrap() error {
	return apperrors.ErrValidationFailed
}
