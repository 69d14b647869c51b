package domain

import (
	"time"
)

// JobID is a unique identifier for a job.
type JobID string

// String returns the string representation of the JobID.
func (id JobID) String() string {
	return string(id)
}

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job is a queued download request.
type Job struct {
	ID         JobID
	URL        string
	Quality    string
	Status     JobStatus
	Attempts   int
	MaxRetries int
	LastError  string
	Result     *AcquisitionResult
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewJob creates a new job for acquiring the video at url.
func NewJob(id JobID, url string, maxRetries int) *Job {
	now := time.Now()
	return &Job{
		ID:         id,
		URL:        url,
		Status:     JobStatusQueued,
		Attempts:   0,
		MaxRetries: maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CanRetry returns true if the job can be retried.
func (j *Job) CanRetry() bool {
	return j.Attempts < j.MaxRetries
}

// MarkProcessing updates the job status to processing.
func (j *Job) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.UpdatedAt = time.Now()
}

// MarkCompleted records the acquisition result and completes the job.
func (j *Job) MarkCompleted(result *AcquisitionResult) {
	j.Status = JobStatusCompleted
	j.Result = result
	j.LastError = ""
	j.UpdatedAt = time.Now()
}

// MarkFailed updates the job status to failed with an error message.
// The job moves to retrying while attempts remain.
func (j *Job) MarkFailed(err string) {
	j.Attempts++
	j.LastError = err
	j.UpdatedAt = time.Now()

	if j.CanRetry() {
		j.Status = JobStatusRetrying
	} else {
		j.Status = JobStatusFailed
	}
}

// MarkFailedPermanently fails the job regardless of remaining attempts.
func (j *Job) MarkFailedPermanently(err string) {
	j.Attempts++
	j.LastError = err
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
}

// IsTerminal reports whether the job will not change state again.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
