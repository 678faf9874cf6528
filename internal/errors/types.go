package errors

import (
	"fmt"
	"maps"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeStoreUnavailable
	ErrorTypeWriteFailed
	ErrorTypeInvalidInput
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeValidation:       "validation",
	ErrorTypeNotFound:         "not_found",
	ErrorTypeStoreUnavailable: "store_unavailable",
	ErrorTypeWriteFailed:      "write_failed",
	ErrorTypeInvalidInput:     "invalid_input",
}

// String returns the snake_case name of the error type
func (et ErrorType) String() string {
	if name, ok := errorTypeNames[et]; ok {
		return name
	}
	return "unknown"
}

// Error codes. Two errors match under errors.Is when both type and code match.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeRecordNotFound   = "RECORD_NOT_FOUND"
	CodeTaskNotFound     = "TASK_NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeWriteFailed      = "WRITE_FAILED"
	CodeInvalidInput     = "INVALID_INPUT"
)

// Sentinels for errors.Is comparisons.
var (
	ErrValidationFailed = &AppError{Type: ErrorTypeValidation, Code: CodeValidationFailed, Message: "validation failed"}
	ErrRecordNotFound   = &AppError{Type: ErrorTypeNotFound, Code: CodeRecordNotFound, Message: "record not found"}
	ErrTaskNotFound     = &AppError{Type: ErrorTypeNotFound, Code: CodeTaskNotFound, Message: "task not found"}
	ErrStoreUnavailable = &AppError{Type: ErrorTypeStoreUnavailable, Code: CodeStoreUnavailable, Message: "store unavailable"}
	ErrWriteFailed      = &AppError{Type: ErrorTypeWriteFailed, Code: CodeWriteFailed, Message: "write failed"}
)

// AppError is the error every layer returns. Type selects the user message
// and log level, and Code tells apart errors of one type.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]any
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches sentinels of the same type and code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Type == t.Type && e.Code == t.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext sets key in the error's context and returns e
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetContext looks up key in the error's context
func (e *AppError) GetContext(key string) (any, bool) {
	value, ok := e.Context[key]
	return value, ok
}

// Operation returns the operation recorded by Annotate, if any.
func (e *AppError) Operation() string {
	op, _ := e.GetContext("operation")
	s, _ := op.(string)
	return s
}

func (e *AppError) clone() *AppError {
	c := *e
	c.Context = maps.Clone(e.Context)
	if c.Context == nil {
		c.Context = make(map[string]any)
	}
	return &c
}
