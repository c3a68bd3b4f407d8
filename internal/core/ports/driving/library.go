package driving

import (
	"context"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// LibraryService manages the document collection.
type LibraryService interface {
	// Ingest fetches text from uri, stores it as a document and
	// queues an indexing job for it.
	Ingest(ctx context.Context, uri, title string) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)
}

// Scheduler runs background maintenance: auto-resuming paused jobs
// once their cooldown elapses.
type Scheduler interface {
	// Start begins the scheduler loop. Blocks until Stop is called
	// or ctx is cancelled.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler.
	Stop() error
}
