package cli

import (
	stderrors "errors"
	"fmt"

	"todo/internal/errors"
	"todo/internal/validation"
)

// NoticeError reports a failure that was already shown to the user as a
// notice. Callers should exit non-zero without printing it again.
type NoticeError struct {
	Err error
}

func (e *NoticeError) Error() string {
	return e.Err.Error()
}

func (e *NoticeError) Unwrap() error {
	return e.Err
}

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user-facing message for err with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if msg, ok := userMessage(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, msg)
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple replaces err with its user-facing message when it has one
func (eh *ErrorHandler) HandleSimple(err error) error {
	if msg, ok := userMessage(err); ok {
		return stderrors.New(msg)
	}
	return err
}

// userMessage reports the message to show for validation and application
// errors. Other errors have none.
func userMessage(err error) (string, bool) {
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err), true
	}
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr.GetUserFriendlyMessage(), true
	}
	return "", false
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsStoreError checks if an error came from the task store
func (eh *ErrorHandler) IsStoreError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStoreUnavailable) ||
		errors.IsErrorType(err, errors.ErrorTypeWriteFailed)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
