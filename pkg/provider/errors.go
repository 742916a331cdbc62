package provider

import (
	"errors"
	"fmt"
)

// Common errors returned by page sources.
var (
	// ErrItemNotFound is returned when a direct item lookup finds no match.
	ErrItemNotFound = errors.New("item not found")

	// ErrLookupUnsupported is returned when a source has no item lookup configured.
	ErrLookupUnsupported = errors.New("item lookup not configured")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of page source errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassThrottle represents 429 Too Many Requests errors.
	ErrorClassThrottle ErrorClass = "throttle"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// SourceError represents a page source error with additional context.
type SourceError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("page source %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("page source %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassClient:
		// 4xx errors should NOT be retried
		return false
	case ErrorClassServer:
		// 5xx server errors should be retried
		return true
	case ErrorClassThrottle:
		// 429 throttle errors should be retried
		return true
	case ErrorClassNetwork:
		// Network errors should be retried
		return true
	default:
		return false
	}
}
