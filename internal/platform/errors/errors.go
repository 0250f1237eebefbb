package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveReading = errors.New("no active reading")
	ErrNoProvider      = errors.New("no step provider configured")
	ErrProviderTimeout = errors.New("step provider timed out")
)
