package model

import "time"

// Status represents the outcome of a conversion
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ConversionEvent describes a newly created source object to convert
type ConversionEvent struct {
	SourceBucket string `json:"source_bucket"`
	SourceKey    string `json:"source_key"`
}

// ConversionResult is the structured outcome returned for every event
type ConversionResult struct {
	Status         Status    `json:"status"`
	DestinationKey string    `json:"destination_key,omitempty"`
	ErrorKind      ErrorKind `json:"error_kind,omitempty"`
	Retryable      bool      `json:"retryable,omitempty"`
	Message        string    `json:"message,omitempty"`
}

// Success builds a success result for the given destination key
func Success(destinationKey string) ConversionResult {
	return ConversionResult{
		Status:         StatusSuccess,
		DestinationKey: destinationKey,
	}
}

// Failure builds a failure result from a classified error
func Failure(err error) ConversionResult {
	return ConversionResult{
		Status:    StatusFailure,
		ErrorKind: KindOf(err),
		Retryable: IsTransient(err),
		Message:   err.Error(),
	}
}

// IsSuccess returns true if the conversion completed
func (r ConversionResult) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// SynthesisRequest carries the text and voice parameters for one synthesis call
type SynthesisRequest struct {
	Text         string
	VoiceID      string
	OutputFormat string
}

// JobStatus represents the status of a journaled conversion job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Job is the journal record for one conversion invocation
type Job struct {
	ID             string     `json:"id" db:"id"`
	SourceBucket   string     `json:"source_bucket" db:"source_bucket"`
	SourceKey      string     `json:"source_key" db:"source_key"`
	DestinationKey *string    `json:"destination_key,omitempty" db:"destination_key"`
	Status         JobStatus  `json:"status" db:"status"`
	ErrorKind      *string    `json:"error_kind,omitempty" db:"error_kind"`
	ErrorText      *string    `json:"error_text,omitempty" db:"error_text"`
	Attempts       int        `json:"attempts" db:"attempts"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// NewJob creates a queued job for the given event
func NewJob(id string, event ConversionEvent) *Job {
	now := time.Now()
	return &Job{
		ID:           id,
		SourceBucket: event.SourceBucket,
		SourceKey:    event.SourceKey,
		Status:       JobStatusQueued,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsCompleted returns true if the job is in a final state
func (j *Job) IsCompleted() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}

// IncrementAttempts increases the attempt counter
func (j *Job) IncrementAttempts() {
	j.Attempts++
}

// SetInProgress marks the job as being processed
func (j *Job) SetInProgress() {
	j.Status = JobStatusInProgress
	j.UpdatedAt = time.Now()
}

// SetCompleted marks the job as done with the destination key
func (j *Job) SetCompleted(destinationKey string) {
	j.Status = JobStatusDone
	j.DestinationKey = &destinationKey
	j.UpdatedAt = time.Now()
}

// SetFailed marks the job as failed with the result's error details
func (j *Job) SetFailed(result ConversionResult) {
	kind := string(result.ErrorKind)
	msg := result.Message
	j.Status = JobStatusFailed
	j.ErrorKind = &kind
	j.ErrorText = &msg
	j.UpdatedAt = time.Now()
}

// ApplyResult transfers a conversion result onto the job record
func (j *Job) ApplyResult(result ConversionResult) {
	if result.IsSuccess() {
		j.SetCompleted(result.DestinationKey)
		return
	}
	j.SetFailed(result)
}
