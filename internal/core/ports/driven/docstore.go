package driven

import (
	"context"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// DocumentStore persists documents and their indexed chunks.
// Backed by SQLite for local storage.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by creation time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// SaveChunks stores a batch of chunks. Saving is append-only:
	// chunk records are never mutated, only superseded by
	// DeleteChunks plus a rebuild.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListChunks returns every stored chunk, ordered by document and
	// index. Retrieval scores across the whole corpus.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// HighestChunkIndex returns the largest persisted chunk index
	// for a document, or -1 when no chunks exist. The resume point
	// of an interrupted indexing run is HighestChunkIndex + 1.
	HighestChunkIndex(ctx context.Context, documentID string) (int, error)

	// DeleteChunks removes all chunks for a document ahead of a
	// rebuild.
	DeleteChunks(ctx context.Context, documentID string) error
}
