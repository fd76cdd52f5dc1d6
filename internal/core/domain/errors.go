package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")
)

// TransportError reports a failed feed request: the remote was unreachable,
// timed out, answered with a non-success status, or sent an unreadable body.
type TransportError struct {
	// URL is the request URL, without credentials.
	URL string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Status is the HTTP status line text.
	Status string

	// Body holds a truncated copy of the response body for diagnostics.
	Body string

	// Err is the underlying cause, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("feed request failed: %s", e.Status)
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return fmt.Sprintf("%s (URL: %s)", msg, e.URL)
	}
	return fmt.Sprintf("feed request failed: %v (URL: %s)", e.Err, e.URL)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NormalizationError reports a feed item that cannot be mapped to a Record.
type NormalizationError struct {
	// Offset is the item's absolute position in the feed.
	Offset int

	// Reason describes what is wrong with the item.
	Reason string

	// Err is the underlying decode error, if any.
	Err error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalise record at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("normalise record at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// StoreError reports a failed write or read against the record store.
// A failed batch write has been rolled back when this is returned.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// SyncError aborts a sync run. Offset is the feed position of the page that
// failed; every page before it has been committed.
type SyncError struct {
	Offset int
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync aborted at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err carries a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNormalization reports whether err carries a NormalizationError.
func IsNormalization(err error) bool {
	var ne *NormalizationError
	return errors.As(err, &ne)
}

// IsStore reports whether err carries a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
