package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrNotFound marks a missing input file or an unknown document id.
	ErrNotFound = errors.New("resource not found")
	// ErrParse marks a file that exists but is not a valid PDF.
	ErrParse = errors.New("invalid document format")
	// ErrUnexpected marks any other extraction-time failure.
	ErrUnexpected = errors.New("unexpected extraction error")
	// ErrStore marks any database-layer failure.
	ErrStore = errors.New("database error")
	// ErrInvalidInput marks bad configuration or arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// NewAppError constructs an AppError with the given code and cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError wraps err with a message, preserving the chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
