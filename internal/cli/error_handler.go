package cli

import (
	"fmt"

	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/validation"
)

// ErrorHandler turns errors into messages fit for the terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes err with the failed operation. Storage details go to the
// error log, never to the returned message.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}

	if eh.IsStorageError(err) {
		logging.Errorf("%s: %v", operation, err)
	}

	if errors.IsAppError(err) {
		return fmt.Errorf("failed to %s: %s", operation, errors.GetUserMessage(err))
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// IsStorageError checks if an error is a storage error
func (eh *ErrorHandler) IsStorageError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStorage)
}
