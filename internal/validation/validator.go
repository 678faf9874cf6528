package validation

import (
	"strings"
	"unicode/utf8"

	"todo/internal/config"
)

// DefaultTextMaxLength is the longest task text accepted when no
// configuration is supplied.
const DefaultTextMaxLength = 1024

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TextLength returns the length of s in characters, not bytes.
func (v *Validator) TextLength(s string) int {
	return utf8.RuneCountInString(s)
}

// IsValidTextLength checks the text length against the configured limit
func (v *Validator) IsValidTextLength(s string) bool {
	return v.TextLength(s) <= v.TextMaxLength()
}

// IsValidUTF8 reports whether s can be stored and read back unchanged.
func (v *Validator) IsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// TextMaxLength returns configured maximum text length or default
func (v *Validator) TextMaxLength() int {
	if v.config != nil && v.config.Validation.TextMaxLength > 0 {
		return v.config.Validation.TextMaxLength
	}
	return DefaultTextMaxLength
}
