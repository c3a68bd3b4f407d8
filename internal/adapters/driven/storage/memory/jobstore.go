package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
)

// Ensure JobStore implements the interface.
var _ driven.JobStore = (*JobStore)(nil)

// JobStore is an in-memory implementation of driven.JobStore.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.IndexingJob
}

// NewJobStore creates a new in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]domain.IndexingJob)}
}

// GetJob retrieves a job by its own ID.
func (s *JobStore) GetJob(_ context.Context, id string) (*domain.IndexingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

// GetJobForDocument retrieves the job for a document, or nil when no
// job exists yet.
func (s *JobStore) GetJobForDocument(_ context.Context, documentID string) (*domain.IndexingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.DocumentID == documentID {
			j := job
			return &j, nil
		}
	}
	return nil, nil
}

// SaveJob creates or updates a job record.
func (s *JobStore) SaveJob(_ context.Context, job *domain.IndexingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *job
	clone.Patterns = append([]string(nil), job.Patterns...)
	s.jobs[job.ID] = clone
	return nil
}

// ListJobs returns all jobs ordered by creation time.
func (s *JobStore) ListJobs(_ context.Context) ([]domain.IndexingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.IndexingJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		result = append(result, job)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// DeleteJob removes a job record.
func (s *JobStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}
