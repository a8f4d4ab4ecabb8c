package genius

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnauthorized is wrapped by ErrAuthRequired when the service rejects the
// access token.
var ErrUnauthorized = errors.New("access token rejected")

// ErrUnavailable indicates a transient failure (rate-limited, timeout, server error).
type ErrUnavailable struct {
	Cause      error
	RetryAfter time.Duration
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("genius unavailable: %v", e.Cause)
}

func (e *ErrUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the service has no resource at the requested path.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("genius: %s not found", e.Resource)
}

// ErrAuthRequired indicates a missing or rejected access token.
type ErrAuthRequired struct {
	Cause error
}

func (e *ErrAuthRequired) Error() string {
	if e.Cause == nil {
		return "genius: access token not configured"
	}
	return fmt.Sprintf("genius: %v", e.Cause)
}

func (e *ErrAuthRequired) Unwrap() error { return e.Cause }

// ErrMalformedHit indicates a search hit without result.primary_artist.id.
type ErrMalformedHit struct {
	Term  string
	Field string
}

func (e *ErrMalformedHit) Error() string {
	return fmt.Sprintf("genius: search hit for %q has no %s", e.Term, e.Field)
}

// ErrMalformedResponse indicates a response body missing the expected envelope.
type ErrMalformedResponse struct {
	Endpoint string
	Field    string
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("genius: %s response is missing %s", e.Endpoint, e.Field)
}

// ErrResponseTooLarge indicates a response body over the read limit.
type ErrResponseTooLarge struct {
	Resource string
	Limit    int
}

func (e *ErrResponseTooLarge) Error() string {
	return fmt.Sprintf("genius: %s response too large (limit %d bytes)", e.Resource, e.Limit)
}
