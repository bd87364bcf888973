package models

import (
	"fmt"
	"time"
)

// ValidationError reports malformed or missing required input. It is never
// retried and is always reported to the caller before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// RateLimitedError indicates the caller exhausted its request window.
// Retrying after RetryAfter may succeed.
type RateLimitedError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Scope, e.RetryAfter)
}

// ProviderError carries a non-success response from a chat provider.
// Status is the upstream HTTP status; Message is the upstream error text
// when parseable, else the raw status text. Never contains credentials.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s request failed (status %d): %s", e.Provider, e.Status, e.Message)
}

// UpstreamError carries a non-success response from a non-chat upstream
// (the opportunity source or an embedding endpoint).
type UpstreamError struct {
	Source string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Source, e.Status, e.Body)
}

// DimensionMismatchError is returned when two vectors of unequal length are
// compared. Similarity between them is undefined, never zero.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d vs %d", e.Want, e.Got)
}
