package validation

import (
	"strings"
	"testing"

	"todo/internal/config"
	"todo/internal/domain"
)

func TestTaskValidator_ValidateTaskText(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		input       string
		expectError bool
		errorType   ValidationErrorType
	}{
		{"Valid text", "Buy milk", false, ""},
		{"Empty text", "", true, ErrorTypeRequired},
		{"Whitespace only", "  \t\n ", true, ErrorTypeRequired},
		{"Surrounding whitespace kept", "  Buy milk  ", false, ""},
		{"Any characters", "Pay @bob #42 $5 ~ 100%", false, ""},
		{"Multiline", "line one\nline two", false, ""},
		{"Too long", strings.Repeat("a", DefaultTextMaxLength+1), true, ErrorTypeTooLong},
		{"Max length", strings.Repeat("a", DefaultTextMaxLength), false, ""},
		{"Invalid UTF-8", "bad \xff", true, ErrorTypeInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTaskText(tt.input)

			if !tt.expectError {
				if err != nil {
					t.Errorf("ValidateTaskText(%q) expected no error but got %v", tt.input, err)
				}
				return
			}

			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("ValidateTaskText(%q) expected ValidationError but got %T", tt.input, err)
			}
			if len(validationErr.Errors) != 1 {
				t.Fatalf("ValidateTaskText(%q) expected one validation error, got %d", tt.input, len(validationErr.Errors))
			}
			if validationErr.Errors[0].Type != tt.errorType {
				t.Errorf("ValidateTaskText(%q) expected error type %v but got %v", tt.input, tt.errorType, validationErr.Errors[0].Type)
			}
			if validationErr.Errors[0].Field != "text" {
				t.Errorf("ValidateTaskText(%q) expected field text but got %v", tt.input, validationErr.Errors[0].Field)
			}
		})
	}
}

func TestTaskValidator_ValidateTextLength(t *testing.T) {
	validator := NewTaskValidator()

	if err := validator.ValidateTextLength(""); err != nil {
		t.Errorf("ValidateTextLength(\"\") should allow clearing text, got %v", err)
	}
	if err := validator.ValidateTextLength("   "); err != nil {
		t.Errorf("ValidateTextLength should allow blank text, got %v", err)
	}
	if err := validator.ValidateTextLength(strings.Repeat("x", DefaultTextMaxLength+1)); err == nil {
		t.Errorf("ValidateTextLength should reject over-long text")
	}
}

func TestTaskValidator_ValidateTaskForUpdate(t *testing.T) {
	cfg := &config.Config{Validation: config.ValidationConfig{TextMaxLength: 5}}
	validator := NewTaskValidatorWithValidator(NewValidatorWithConfig(cfg))

	if err := validator.ValidateTaskForUpdate(domain.Task{ID: "a", Text: "short"}); err != nil {
		t.Errorf("ValidateTaskForUpdate() unexpected error %v", err)
	}
	if err := validator.ValidateTaskForUpdate(domain.Task{ID: "a", Text: "too long"}); err == nil {
		t.Errorf("ValidateTaskForUpdate() should honor the configured limit")
	}
}

func TestNewTaskValidatorWithValidator_NilUsesDefaults(t *testing.T) {
	validator := NewTaskValidatorWithValidator(nil)

	if err := validator.ValidateTaskText(strings.Repeat("a", DefaultTextMaxLength)); err != nil {
		t.Errorf("expected default limit, got %v", err)
	}
}
