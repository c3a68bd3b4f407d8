package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-labs/lectern/internal/chunker"
	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
	"github.com/inkwell-labs/lectern/internal/logger"
)

// Ensure Library implements the interface.
var _ driving.LibraryService = (*Library)(nil)

// Library manages the document collection: fetching source text,
// storing it and queuing the indexing job.
type Library struct {
	docStore driven.DocumentStore
	jobStore driven.JobStore
	fetcher  driven.Fetcher
	settings domain.IndexingSettings
	now      func() time.Time
}

// NewLibrary creates the library service.
func NewLibrary(
	docStore driven.DocumentStore,
	jobStore driven.JobStore,
	fetcher driven.Fetcher,
	settings domain.IndexingSettings,
) *Library {
	return &Library{
		docStore: docStore,
		jobStore: jobStore,
		fetcher:  fetcher,
		settings: settings,
		now:      time.Now,
	}
}

// Ingest fetches text from uri, stores it as a document and queues an
// indexing job. A missing title is inferred from the source name.
//
// Re-ingesting a known URI supersedes the earlier version in place:
// the document keeps its identity, stale chunks and the old job are
// dropped, and a fresh job is queued. File watchers fire several
// events per save, so ingestion has to converge on one document per
// source.
func (l *Library) Ingest(ctx context.Context, uri, title string) (*domain.Document, error) {
	content, err := l.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: %s has no text content", domain.ErrInvalidInput, uri)
	}

	if title == "" {
		title = inferTitle(uri)
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Title:      title,
		URI:        uri,
		Content:    content,
		Structured: chunker.HasHeadings(content),
		CreatedAt:  l.now(),
	}

	existing, err := l.findByURI(ctx, uri)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
		if err := l.supersede(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	if err := l.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	job := &domain.IndexingJob{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Phase:      domain.PhaseQueued,
		Depth:      l.settings.Depth,
		Passes:     l.settings.Passes,
		CreatedAt:  l.now(),
		UpdatedAt:  l.now(),
	}
	if err := l.jobStore.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("queue job: %w", err)
	}

	logger.Info("Ingested %q (%d chars, structured=%t)", doc.Title, len(content), doc.Structured)
	return doc, nil
}

// findByURI looks up an already-ingested document for a source URI.
func (l *Library) findByURI(ctx context.Context, uri string) (*domain.Document, error) {
	docs, err := l.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for i := range docs {
		if docs[i].URI == uri {
			return &docs[i], nil
		}
	}
	return nil, nil
}

// supersede clears the indexed state of an earlier version: its
// chunks and its job record. The caller re-queues.
func (l *Library) supersede(ctx context.Context, documentID string) error {
	if err := l.docStore.DeleteChunks(ctx, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	job, err := l.jobStore.GetJobForDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job != nil {
		if err := l.jobStore.DeleteJob(ctx, job.ID); err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
	}
	return nil
}

// Get retrieves a document by ID.
func (l *Library) Get(ctx context.Context, id string) (*domain.Document, error) {
	return l.docStore.GetDocument(ctx, id)
}

// List returns all documents.
func (l *Library) List(ctx context.Context) ([]domain.Document, error) {
	return l.docStore.ListDocuments(ctx)
}

// inferTitle derives a readable title from a URI: the base name
// without extension, underscores and hyphens opened up to spaces.
func inferTitle(uri string) string {
	base := filepath.Base(uri)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		return "Untitled"
	}
	return base
}
