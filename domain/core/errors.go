package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidInput covers samples that are too small, non-numeric values
	// and out-of-range parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateInput covers zero-variance data that would otherwise
	// divide by zero in a standard error or pooled deviation.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNumericalInstability is returned when an iterative routine fails to
	// converge. The last estimate is discarded.
	ErrNumericalInstability = errors.New("numerical instability")
)

// Error constructors with context
func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewSampleSizeError(field string, n int) error {
	return fmt.Errorf("%w: %s: need at least 2 observations, got %d", ErrInvalidInput, field, n)
}

func NewNonNumericError(field string, index int, value float64) error {
	return fmt.Errorf("%w: %s[%d]: non-numeric value %v", ErrInvalidInput, field, index, value)
}

func NewDegenerateInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, reason)
}

func NewConvergenceError(routine string, iterations int) error {
	return fmt.Errorf("%w: %s did not converge within %d iterations", ErrNumericalInstability, routine, iterations)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}

func IsNumericalInstability(err error) bool {
	return errors.Is(err, ErrNumericalInstability)
}

// IsDomainError reports whether err belongs to the input-driven error taxonomy.
func IsDomainError(err error) bool {
	return IsInvalidInput(err) || IsDegenerateInput(err) || IsNumericalInstability(err)
}
