package errors

import (
	"errors"
	"fmt"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    CodeValidationFailed,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// NewRecordNotFoundError reports a store key that does not resolve to a record
func NewRecordNotFoundError(key string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("record not found: %s", key),
		Code:    CodeRecordNotFound,
		Context: map[string]any{
			"resource":   "record",
			"identifier": key,
		},
	}
}

// NewTaskNotFoundError reports a task whose record is gone or was never persisted
func NewTaskNotFoundError(taskID string, cause error) *AppError {
	if taskID == "" {
		taskID = "(unsaved)"
	}
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("task not found: %s", taskID),
		Code:    CodeTaskNotFound,
		Cause:   cause,
		Context: map[string]any{
			"resource":   "task",
			"identifier": taskID,
		},
	}
}

// NewStoreUnavailableError creates an error for a store that could not be opened or accessed
func NewStoreUnavailableError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStoreUnavailable,
		Message: fmt.Sprintf("task store unavailable: %s", operation),
		Code:    CodeStoreUnavailable,
		Cause:   cause,
		Context: map[string]any{
			"operation": operation,
		},
	}
}

// NewWriteFailedError creates an error for a failed durable write
func NewWriteFailedError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeWriteFailed,
		Message: fmt.Sprintf("write failed: %s", operation),
		Code:    CodeWriteFailed,
		Cause:   cause,
		Context: map[string]any{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value any, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    CodeInvalidInput,
		Context: map[string]any{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// Annotate records the failing operation on err without changing its kind.
// AppErrors are cloned so shared values are never mutated; other errors
// are wrapped with fmt.Errorf.
func Annotate(err error, operation string) error {
	if err == nil {
		return nil
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return fmt.Errorf("%s: %w", operation, err)
	}
	annotated := appErr.clone()
	annotated.Message = fmt.Sprintf("%s: %s", operation, appErr.Message)
	annotated.Context["operation"] = operation
	return annotated
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

var userMessages = map[ErrorType]string{
	ErrorTypeNotFound:         "The task no longer exists. It may have been deleted elsewhere.",
	ErrorTypeStoreUnavailable: "The task store could not be opened. Please try again.",
	ErrorTypeWriteFailed:      "The change could not be saved. Please try again.",
}

// GetUserMessage returns the message to show a user for err. Validation and
// input errors carry their own message; other AppErrors map to a fixed one.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeInvalidInput:
		return appErr.Message
	}
	if msg, ok := userMessages[appErr.Type]; ok {
		return msg
	}
	return "An unexpected error occurred. Please try again."
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether err is a system failure worth an error log.
// User errors are logged at a lower level by callers.
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return true
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
		return false
	default:
		return true
	}
}
