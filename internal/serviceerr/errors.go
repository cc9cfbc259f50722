// Package serviceerr defines the error taxonomy shared by the API
// client and the session store.
package serviceerr

import (
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthorized = errors.New("unauthorized")
var ErrValidation = errors.New("validation failed")
var ErrNetwork = errors.New("network failure")
var ErrNotFound = errors.New("not found")
var ErrConflict = errors.New("already exists")

// APIError carries the HTTP status and the server-supplied detail text
// of a failed request. It wraps the matching sentinel so callers can
// branch with errors.Is while still reaching the detail message.
type APIError struct {
	Status int
	Detail string
	kind   error
}

func NewAPIError(status int, detail string, kind error) *APIError {
	return &APIError{Status: status, Detail: detail, kind: kind}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.kind }

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// DetailOrFallback returns the server detail text of err when present,
// else the given fallback.
func DetailOrFallback(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
