package driven

import (
	"context"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// JobStore persists indexing job state for crash recovery and
// auto-resume. At most one job exists per document.
type JobStore interface {
	// GetJob retrieves a job by its own ID.
	GetJob(ctx context.Context, id string) (*domain.IndexingJob, error)

	// GetJobForDocument retrieves the job for a document.
	// Returns nil and no error when no job exists yet.
	GetJobForDocument(ctx context.Context, documentID string) (*domain.IndexingJob, error)

	// SaveJob creates or updates a job record. Called after every
	// batch, so implementations should keep writes cheap.
	SaveJob(ctx context.Context, job *domain.IndexingJob) error

	// ListJobs returns all jobs ordered by creation time.
	ListJobs(ctx context.Context) ([]domain.IndexingJob, error)

	// DeleteJob removes a job record ahead of a rebuild.
	DeleteJob(ctx context.Context, id string) error
}
