package loader

import (
	"errors"
	"fmt"
)

// Common errors returned by the content API client.
var (
	// ErrNotFound indicates the resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with content API")

	// ErrInvalidResponse indicates a body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from content API")
)

// APIError represents a non-2xx response from the content API.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("content API error (status %d, %s): %s", e.StatusCode, e.Path, e.Message)
	}
	return fmt.Sprintf("content API error (status %d, %s)", e.StatusCode, e.Path)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsNetworkError returns true if the request never got a response.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetworkError)
}
