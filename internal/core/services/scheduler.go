package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
	"github.com/inkwell-labs/lectern/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler auto-resumes jobs paused by a rate-limit cooldown. Only
// cooldown pauses qualify: jobs in the error phase stay put until a
// user resumes them explicitly.
type Scheduler struct {
	jobStore driven.JobStore
	indexer  driving.Indexer
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates the auto-resume scheduler.
func NewScheduler(jobStore driven.JobStore, indexer driving.Indexer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		jobStore: jobStore,
		indexer:  indexer,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Check for due resumes immediately on startup
	s.resumeDue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.resumeDue(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for in-flight resumes to complete
	s.wg.Wait()

	return nil
}

// resumeDue finds paused jobs whose cooldown has elapsed and resumes
// each in its own goroutine.
func (s *Scheduler) resumeDue(ctx context.Context) {
	jobs, err := s.jobStore.ListJobs(ctx)
	if err != nil {
		logger.Warn("Scheduler failed to list jobs: %v", err)
		return
	}

	now := s.now()
	for i := range jobs {
		job := &jobs[i]
		if !s.due(job, now) {
			continue
		}
		s.resume(ctx, job.DocumentID)
	}
}

// due reports whether a job is a paused cooldown whose resume time
// has passed.
func (s *Scheduler) due(job *domain.IndexingJob, now time.Time) bool {
	if job.Phase.IsTerminal() || job.Phase == domain.PhaseError {
		return false
	}
	if job.ResumeAt.IsZero() {
		return false
	}
	return !job.ResumeAt.After(now)
}

func (s *Scheduler) resume(ctx context.Context, documentID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		logger.Info("Auto-resuming indexing for document %s", documentID)
		err := s.indexer.Run(ctx, documentID)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrJobInProgress):
			// Another caller beat us to it; nothing to do.
		default:
			logger.Warn("Auto-resume for %s failed: %v", documentID, err)
		}
	}()
}
