// ABOUTME: Custom error types for the core business logic
// ABOUTME: Separates caller-visible not-found results from diagnostic fetch and guard errors

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// BlockedError is returned by the request guard when a URL may not be fetched.
// Reason is a short machine-friendly label such as "scheme" or "private-address".
type BlockedError struct {
	URL    string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *BlockedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("blocked %s (%s): %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("blocked %s (%s)", e.URL, e.Reason)
}

// Unwrap returns the underlying cause, if any
func (e *BlockedError) Unwrap() error {
	return e.Err
}

// FetchError describes a failed fetch attempt for diagnostics
type FetchError struct {
	URL        string
	Kind       string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetch %s failed (%s): %v", e.URL, e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s failed (%s): status %d", e.URL, e.Kind, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s failed (%s)", e.URL, e.Kind)
	}
}

// Unwrap returns the underlying cause, if any
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsBlocked checks if an error is a BlockedError
func IsBlocked(err error) bool {
	var blockedErr *BlockedError
	return errors.As(err, &blockedErr)
}

// IsFetch checks if an error is a FetchError
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
