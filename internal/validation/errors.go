package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType names the rule a value broke
type ValidationErrorType string

const (
	ErrorTypeRequired        ValidationErrorType = "required"
	ErrorTypeTooLong         ValidationErrorType = "too_long"
	ErrorTypeInvalidEncoding ValidationErrorType = "invalid_encoding"
)

// FieldError is one broken rule. Length and Limit are set for too_long.
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Length  int
	Limit   int
}

// Error implements the error interface for FieldError
func (fe *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", fe.Field, fe.Message)
}

// ValidationError collects every rule a task broke
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{
		Errors: make([]FieldError, 0),
	}
}

// Error implements the error interface for ValidationError
func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "invalid task"
	case 1:
		return ve.Errors[0].Error()
	}

	messages := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		messages[i] = ve.Errors[i].Error()
	}
	return fmt.Sprintf("invalid task: %s", strings.Join(messages, "; "))
}

// IsValidationError checks if an error is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HasErrors returns true if any rule was broken
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Has reports whether a rule of type t was broken
func (ve *ValidationError) Has(t ValidationErrorType) bool {
	for _, fe := range ve.Errors {
		if fe.Type == t {
			return true
		}
	}
	return false
}

// AddRequiredError records a blank field
func (ve *ValidationError) AddRequiredError(field string) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    ErrorTypeRequired,
		Message: fmt.Sprintf("%s is required", field),
	})
}

// AddTooLongError records a field of length characters over limit
func (ve *ValidationError) AddTooLongError(field string, length, limit int) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    ErrorTypeTooLong,
		Message: fmt.Sprintf("%s is %d characters long, at most %d are allowed", field, length, limit),
		Length:  length,
		Limit:   limit,
	})
}

// AddInvalidEncodingError records a field that is not UTF-8 text
func (ve *ValidationError) AddInvalidEncodingError(field string) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    ErrorTypeInvalidEncoding,
		Message: fmt.Sprintf("%s is not valid UTF-8 text", field),
	})
}

// GetUserFriendlyMessage returns the broken rules as one line
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if len(ve.Errors) == 0 {
		return "The task is not valid"
	}

	messages := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}
