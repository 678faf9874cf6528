package validation

import (
	"todo/internal/domain"
)

const fieldText = "text"

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithValidator creates a task validator sharing v's limits
func NewTaskValidatorWithValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{
		validator: v,
	}
}

// ValidateTaskText validates text for a new task. Blank text is rejected;
// the text itself is never rewritten.
func (tv *TaskValidator) ValidateTaskText(text string) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(text) {
		validationError.AddRequiredError(fieldText)
		return validationError
	}

	tv.checkEncodingAndLength(validationError, text)

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTextLength validates text for an update. Updates may clear the
// text, so only encoding and length are checked.
func (tv *TaskValidator) ValidateTextLength(text string) error {
	validationError := NewValidationError()

	tv.checkEncodingAndLength(validationError, text)

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTaskForUpdate validates a task about to be written back to the store
func (tv *TaskValidator) ValidateTaskForUpdate(task domain.Task) error {
	return tv.ValidateTextLength(task.Text)
}

func (tv *TaskValidator) checkEncodingAndLength(ve *ValidationError, text string) {
	if !tv.validator.IsValidUTF8(text) {
		ve.AddInvalidEncodingError(fieldText)
		return
	}
	if !tv.validator.IsValidTextLength(text) {
		ve.AddTooLongError(fieldText, tv.validator.TextLength(text), tv.validator.TextMaxLength())
	}
}
