package driving

import (
	"context"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// Indexer drives the document indexing state machine.
type Indexer interface {
	// Run starts or resumes indexing for a document, entering the
	// state machine at the correct resume point. It blocks until the
	// job completes, pauses for a rate-limit cooldown, or fails.
	// Returns domain.ErrJobInProgress if a run is already active for
	// the document in this process.
	Run(ctx context.Context, documentID string) error

	// Finalize force-transitions an in-progress job straight to
	// completed, skipping the analysis phase.
	Finalize(ctx context.Context, documentID string) error

	// Rebuild deletes the document's chunks and job record so the
	// next Run starts from scratch. Chunks are superseded, never
	// mutated.
	Rebuild(ctx context.Context, documentID string) error

	// Status returns the current job record for a document.
	Status(ctx context.Context, documentID string) (*domain.IndexingJob, error)

	// Jobs returns all job records.
	Jobs(ctx context.Context) ([]domain.IndexingJob, error)
}
