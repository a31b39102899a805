package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"todo/internal/config"
)

// TaskValidator provides validation for Task-related input
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidatorWithConfig creates a task validator honouring configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateContent validates task content for creation
func (tv *TaskValidator) ValidateContent(content string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(content)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("content")
		return validationError
	}

	if !tv.validator.IsValidContentLength(trimmed) {
		validationError.AddInvalidLengthError("content", utf8.RuneCountInString(trimmed), 1, tv.validator.ContentMaxLength())
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// GetValidContent returns content unchanged if it is valid. Surrounding
// whitespace only matters for the emptiness and length checks.
func (tv *TaskValidator) GetValidContent(content string) (string, error) {
	if err := tv.ValidateContent(content); err != nil {
		return "", err
	}
	return content, nil
}

// ParseTaskID parses a task id taken from a URL path
func (tv *TaskValidator) ParseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("id", raw, "integer")
		return 0, validationError
	}
	return id, nil
}

// ParseDone parses the done form field. An absent value means false and
// the HTML checkbox value "on" means true.
func (tv *TaskValidator) ParseDone(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return false, nil
	case "on":
		return true, nil
	}

	done, err := strconv.ParseBool(raw)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("done", raw, "must be a boolean")
		return false, validationError
	}
	return done, nil
}
