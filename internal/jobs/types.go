package jobs

import (
	"context"
	"time"
)

// JobType identifies what a job does.
type JobType string

const (
	// JobTypeProcessFile is an uploaded-statement ingestion job.
	JobTypeProcessFile JobType = "process_file"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ProcessFileJob asks a worker to run the ingestion pipeline over one
// uploaded file.
type ProcessFileJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// FileID is the ID of the uploaded file record.
	FileID string `json:"file_id"`

	// CompanyID scopes the job to the company that uploaded the file.
	CompanyID string `json:"company_id"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface over job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ProcessFileJob) GetID() string {
	return j.JobID
}

func (j *ProcessFileJob) GetType() JobType {
	return JobTypeProcessFile
}

func (j *ProcessFileJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher enqueues jobs. The abstraction allows swapping the in-memory
// queue for Cloud Tasks or Pub/Sub without touching the handlers.
type Publisher interface {
	// PublishProcessFile publishes a file ingestion job.
	PublishProcessFile(ctx context.Context, job *ProcessFileJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer pulls jobs off a queue and runs them through a handler.
type Consumer interface {
	// Start begins consuming jobs. The handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state so clients can poll ingestion progress.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ProcessFileJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ProcessFileJob, error)

	// ListJobs retrieves jobs matching the filter.
	ListJobs(ctx context.Context, filter JobFilter) ([]*ProcessFileJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	// FileID filters jobs by uploaded file.
	FileID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
