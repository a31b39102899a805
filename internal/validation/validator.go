package validation

import (
	"strings"
	"unicode/utf8"

	"todo/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidatorWithConfig creates a new validator instance with configuration.
// A nil cfg uses the default limits.
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the character count of s is within [min, max]
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(s)
	return length >= min && length <= max
}

// IsValidContentLength checks content against the configured maximum
func (v *Validator) IsValidContentLength(content string) bool {
	return v.IsValidStringLength(content, 1, v.ContentMaxLength())
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// ContentMaxLength returns the configured maximum content length or the default
func (v *Validator) ContentMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ContentMaxLength
	}
	return 1000
}
