package model

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a conversion failure so callers can route it
// without inspecting internals
type ErrorKind string

const (
	ErrKindMalformedEvent      ErrorKind = "malformed_event"
	ErrKindUnsupportedFileType ErrorKind = "unsupported_file_type"
	ErrKindSourceNotFound      ErrorKind = "source_not_found"
	ErrKindInvalidEncoding     ErrorKind = "invalid_encoding"
	ErrKindInputTooLarge       ErrorKind = "input_too_large"
	ErrKindSynthesisFailed     ErrorKind = "synthesis_failed"
	ErrKindStorageUnavailable  ErrorKind = "storage_unavailable"
	ErrKindCancelled           ErrorKind = "cancelled"
	ErrKindInternal            ErrorKind = "internal_error"
)

// Error is a classified conversion error. Transient errors are eligible
// for retry and queue redelivery; permanent ones are reported immediately.
type Error struct {
	Kind      ErrorKind
	Transient bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Permanent wraps err as a non-retryable failure of the given kind
func Permanent(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Transient wraps err as a retryable failure of the given kind
func Transient(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Transient: true, Err: err}
}

// KindOf extracts the error kind, mapping context errors to Cancelled
// and everything unclassified to InternalError
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrKindCancelled
	}
	return ErrKindInternal
}

// IsTransient reports whether err is classified as retryable
func IsTransient(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Transient
	}
	return false
}
