package ads

import (
	"errors"
	"fmt"
)

// Failure taxonomy for lookups.
var (
	// ErrNotFound indicates the authority has no record for the identifier.
	ErrNotFound = errors.New("not found in ADS")

	// ErrAuthMissing indicates the API token is absent or rejected.
	ErrAuthMissing = errors.New("ADS API token missing or invalid")

	// ErrRateLimited indicates the daily or per-second quota is exhausted.
	ErrRateLimited = errors.New("ADS rate limit exceeded")

	// ErrTransient indicates a temporary failure (network, timeout, 5xx).
	ErrTransient = errors.New("transient ADS error")
)

// APIError represents an error response from the ADS API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ADS API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap maps the HTTP status onto the failure taxonomy so callers can use
// errors.Is against the sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return ErrAuthMissing
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode == 429:
		return ErrRateLimited
	default:
		return ErrTransient
	}
}

// IsRetryable reports whether the error should be retried on a later
// scheduled attempt rather than surfaced as terminal.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
