package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_ClassifiedError(t *testing.T) {
	err := Transient(ErrKindStorageUnavailable, errors.New("connection reset"))

	assert.Equal(t, ErrKindStorageUnavailable, KindOf(err))
	assert.True(t, IsTransient(err))
}

func TestKindOf_WrappedClassifiedError(t *testing.T) {
	inner := Permanent(ErrKindSourceNotFound, errors.New("no such key"))
	wrapped := fmt.Errorf("fetch source: %w", inner)

	assert.Equal(t, ErrKindSourceNotFound, KindOf(wrapped))
	assert.False(t, IsTransient(wrapped))
}

func TestKindOf_ContextErrors(t *testing.T) {
	assert.Equal(t, ErrKindCancelled, KindOf(context.Canceled))
	assert.Equal(t, ErrKindCancelled, KindOf(context.DeadlineExceeded))
}

func TestKindOf_UnclassifiedError(t *testing.T) {
	err := errors.New("something odd")

	assert.Equal(t, ErrKindInternal, KindOf(err))
	assert.False(t, IsTransient(err))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Transient(ErrKindSynthesisFailed, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "synthesis_failed")
	assert.Contains(t, err.Error(), "root cause")
}

func TestFailure_FromClassifiedError(t *testing.T) {
	result := Failure(Transient(ErrKindSynthesisFailed, errors.New("throttled")))

	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, ErrKindSynthesisFailed, result.ErrorKind)
	assert.True(t, result.Retryable)
	assert.False(t, result.IsSuccess())
}

func TestSuccess_CarriesDestinationKey(t *testing.T) {
	result := Success("report.mp3")

	assert.True(t, result.IsSuccess())
	assert.Equal(t, "report.mp3", result.DestinationKey)
	assert.Empty(t, result.ErrorKind)
}
