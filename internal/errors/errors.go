package errors

import (
	"errors"
	"fmt"
)

// OpaqueMessage is the only message a caller ever sees for a storage failure.
const OpaqueMessage = "An unexpected exception has occurred"

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewStorageError creates a new storage error for a failed store or render operation
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    "STORAGE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
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

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// GetUserMessage returns the message that may be shown to the caller.
// Storage and unknown errors never leak their details.
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			return appErr.Message
		case ErrorTypeNotFound:
			return appErr.Message
		default:
			return OpaqueMessage
		}
	}
	return OpaqueMessage
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound:
			return false // caller errors
		default:
			return true
		}
	}
	return true
}
