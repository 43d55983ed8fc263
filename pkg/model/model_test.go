package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_ApplyResult_Success(t *testing.T) {
	event := ConversionEvent{SourceBucket: "source-polly", SourceKey: "report.txt"}
	job := NewJob("job-1", event)

	assert.Equal(t, JobStatusQueued, job.Status)
	assert.False(t, job.IsCompleted())

	job.IncrementAttempts()
	job.ApplyResult(Success("report.mp3"))

	assert.Equal(t, JobStatusDone, job.Status)
	assert.True(t, job.IsCompleted())
	assert.Equal(t, 1, job.Attempts)
	require.NotNil(t, job.DestinationKey)
	assert.Equal(t, "report.mp3", *job.DestinationKey)
}

func TestJob_ApplyResult_Failure(t *testing.T) {
	job := NewJob("job-2", ConversionEvent{SourceBucket: "source-polly", SourceKey: "report.txt"})

	job.ApplyResult(Failure(Permanent(ErrKindInvalidEncoding, errors.New("bad bytes"))))

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.True(t, job.IsCompleted())
	require.NotNil(t, job.ErrorKind)
	assert.Equal(t, string(ErrKindInvalidEncoding), *job.ErrorKind)
	require.NotNil(t, job.ErrorText)
	assert.Contains(t, *job.ErrorText, "bad bytes")
}
