package models

import (
	"errors"
	"fmt"
)

var (
	// ErrRetrieval is returned when a repository cannot be materialized.
	ErrRetrieval = errors.New("repository retrieval failed")

	// ErrFormat is returned for manifests that cannot be parsed.
	ErrFormat = errors.New("malformed manifest")

	// ErrLookup is returned for failed or timed out registry calls.
	ErrLookup = errors.New("registry lookup failed")

	// ErrNotFound is returned when a registry has no such package.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is matched by every RateLimitError.
	ErrRateLimited = errors.New("rate limited")
)

// RateLimitError is returned when a discovery API refuses further requests.
type RateLimitError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rate limited (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("rate limited (status %d)", e.Status)
}

// Unwrap lets errors.Is match ErrRateLimited.
func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
