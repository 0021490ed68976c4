package utils

import (
	"errors"
	"fmt"
)

// ValidationError represents an error occurring during data validation.
// Validation errors are recoverable: the offending row is skipped or
// neutralized and processing continues.
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// ConfigurationError represents structurally broken configuration: negative
// scoring weights, non-monotonic band thresholds, and the like. Unlike
// validation errors it is fatal and surfaced before any candidate is scored.
type ConfigurationError struct {
	Message string
}

// Error returns the error message string.
func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError creates a new ConfigurationError with a specific message.
func NewConfigurationError(message string) error {
	return &ConfigurationError{
		Message: message,
	}
}

// NewConfigurationErrorf creates a new ConfigurationError with a formatted message.
func NewConfigurationErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
