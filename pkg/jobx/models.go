package jobx

import (
	"encoding/json"
	"time"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// Job is a unit of work to be enqueued.
type Job struct {
	Type    string          `json:"type"`
	Queue   string          `json:"queue"`
	Payload json.RawMessage `json:"payload"`
	// MaxRetries defaults to 3.
	MaxRetries int `json:"max_retries"`
}

// NewJob marshals payload into a Job for queue.
func NewJob(jobType, queue string, payload any) (Job, error) {
	if jobType == "" {
		return Job{}, ErrRegistry.New(CodeInvalidJob).WithDetail("reason", "empty type")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Job{}, ErrRegistry.NewWithCause(CodeInvalidJob, err).WithDetail("type", jobType)
	}
	return Job{Type: jobType, Queue: queue, Payload: data}, nil
}

// JobInfo is the stored representation of a job.
type JobInfo struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Queue      string          `json:"queue"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	Error      string          `json:"error,omitempty"`
	MaxRetries int             `json:"max_retries"`
	Attempts   int             `json:"attempts"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Decode unmarshals the payload of job into T.
func Decode[T any](job *JobInfo) (T, error) {
	var v T
	if err := json.Unmarshal(job.Payload, &v); err != nil {
		return v, ErrRegistry.NewWithCause(CodeInvalidPayload, err).
			WithDetail("job_id", job.ID).
			WithDetail("type", job.Type)
	}
	return v, nil
}
