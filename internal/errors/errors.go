package errors

import (
	stderrors "errors"
	"fmt"

	"hypotest/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. Domain errors keep their
// classification.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError, the domain
// classification of a bare domain error, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case core.IsInvalidInput(err):
		return CodeInvalidInput
	case core.IsDegenerateInput(err):
		return CodeDegenerateInput
	case core.IsNumericalInstability(err):
		return CodeNumericalInstability
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid         = "CONFIG_INVALID"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeDegenerateInput       = "DEGENERATE_INPUT"
	CodeNumericalInstability  = "NUMERICAL_INSTABILITY"
	CodeUnsupportedFileFormat = "UNSUPPORTED_FORMAT"
)

// Process exit codes
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
)

// ExitCode maps an error to the process exit status: 0 for nil, 2 when the
// input itself is unusable, 1 otherwise
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if core.IsDomainError(err) {
		return ExitInvalidInput
	}
	switch GetCode(err) {
	case CodeInvalidInput, CodeDegenerateInput, CodeNumericalInstability:
		return ExitInvalidInput
	}
	return ExitFailure
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func UnsupportedFormat(format string) *AppError {
	return New(CodeUnsupportedFileFormat, fmt.Sprintf("unsupported input format %q", format))
}
