package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/inkwell-labs/lectern/internal/chunker"
	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
	"github.com/inkwell-labs/lectern/internal/extract"
	"github.com/inkwell-labs/lectern/internal/logger"
	"github.com/inkwell-labs/lectern/internal/retry"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

// Indexer coordinates the document indexing state machine:
// queued → preprocessing → indexing → analyzing → completed, with
// error reachable from the three working phases and resumable.
//
// The Indexer is the only writer of job records. Batches run strictly
// sequentially; the pace limiter bounds burst load on the store and
// generator.
type Indexer struct {
	docStore  driven.DocumentStore
	jobStore  driven.JobStore
	generator driven.Generator
	settings  domain.IndexingSettings

	pace *rate.Limiter

	// now and jitter are injected for deterministic tests.
	now    func() time.Time
	jitter func(time.Duration) time.Duration

	mu     sync.Mutex
	active map[string]struct{}
}

// NewIndexer creates an indexing orchestrator. The generator is
// optional: without one the analysis phase is skipped.
func NewIndexer(
	docStore driven.DocumentStore,
	jobStore driven.JobStore,
	generator driven.Generator,
	settings domain.IndexingSettings,
) *Indexer {
	return &Indexer{
		docStore:  docStore,
		jobStore:  jobStore,
		generator: generator,
		settings:  settings,
		pace:      rate.NewLimiter(rate.Every(settings.BatchDelay), 1),
		now:       time.Now,
		jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return time.Duration(rand.Int63n(int64(max)))
		},
		active: make(map[string]struct{}),
	}
}

// Run starts or resumes indexing for a document. It blocks until the
// job completes, pauses for a rate-limit cooldown (returning nil with
// ResumeAt set on the job), or fails.
func (x *Indexer) Run(ctx context.Context, documentID string) error {
	if !x.acquire(documentID) {
		return domain.ErrJobInProgress
	}
	defer x.release(documentID)

	doc, err := x.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	job, err := x.jobStore.GetJobForDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		job = &domain.IndexingJob{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Phase:      domain.PhaseQueued,
			Depth:      x.settings.Depth,
			Passes:     x.settings.Passes,
			CreatedAt:  x.now(),
		}
	}
	if job.Phase.IsTerminal() {
		return domain.ErrJobCompleted
	}

	// Entering the state machine clears any pending pause or error.
	job.ResumeAt = time.Time{}
	job.Notice = ""
	job.LastError = ""

	phase := job.ResumePhase()
	logger.Section("Indexing")
	logger.Info("Document %q entering phase %s", doc.Title, phase)

	if phase == domain.PhaseQueued || phase == domain.PhasePreprocessing {
		if err := x.transition(ctx, job, domain.PhasePreprocessing); err != nil {
			return err
		}
		if err := x.preprocess(ctx, doc, job); err != nil {
			return x.fail(ctx, job, domain.PhasePreprocessing, err)
		}
		phase = domain.PhaseIndexing
	}

	if phase == domain.PhaseIndexing {
		if err := x.transition(ctx, job, domain.PhaseIndexing); err != nil {
			return err
		}
		if err := x.index(ctx, doc, job); err != nil {
			return x.fail(ctx, job, domain.PhaseIndexing, err)
		}
		phase = domain.PhaseAnalyzing
	}

	if phase == domain.PhaseAnalyzing && x.analysisEnabled(job) {
		if err := x.transition(ctx, job, domain.PhaseAnalyzing); err != nil {
			return err
		}
		if err := x.analyze(ctx, doc, job); err != nil {
			return x.fail(ctx, job, domain.PhaseAnalyzing, err)
		}
	}

	return x.complete(ctx, job)
}

// Finalize force-transitions a job straight to completed, skipping
// any remaining analysis work.
func (x *Indexer) Finalize(ctx context.Context, documentID string) error {
	job, err := x.jobStore.GetJobForDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return domain.ErrNotFound
	}
	if job.Phase.IsTerminal() {
		return nil
	}
	logger.Info("Finalizing job for document %s from phase %s", documentID, job.Phase)
	return x.complete(ctx, job)
}

// Rebuild supersedes a document's chunks: they are deleted together
// with the job record so the next Run starts from scratch.
func (x *Indexer) Rebuild(ctx context.Context, documentID string) error {
	if !x.acquire(documentID) {
		return domain.ErrJobInProgress
	}
	defer x.release(documentID)

	job, err := x.jobStore.GetJobForDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job != nil {
		if err := x.jobStore.DeleteJob(ctx, job.ID); err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
	}
	if err := x.docStore.DeleteChunks(ctx, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// Status returns the current job record for a document.
func (x *Indexer) Status(ctx context.Context, documentID string) (*domain.IndexingJob, error) {
	job, err := x.jobStore.GetJobForDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// Jobs returns all job records.
func (x *Indexer) Jobs(ctx context.Context) ([]domain.IndexingJob, error) {
	return x.jobStore.ListJobs(ctx)
}

// preprocess estimates the total work: token count and expected chunk
// count for the document.
func (x *Indexer) preprocess(ctx context.Context, doc *domain.Document, job *domain.IndexingJob) error {
	tokens := len(doc.Content) / 4
	spans := x.spansFor(doc)
	job.TotalChunks = len(spans)
	job.RemainingChunks = len(spans)
	job.AdvanceProgress(5)
	job.UpdatedAt = x.now()

	logger.Debug("Preprocessed %q: ~%d tokens, %d expected chunks", doc.Title, tokens, job.TotalChunks)
	return x.saveJob(ctx, job)
}

// index chunks the document in small batches, extracting features and
// persisting each batch before checkpointing progress. The resume
// point is recomputed from the highest already-persisted chunk index,
// so a re-run never duplicates chunks.
func (x *Indexer) index(ctx context.Context, doc *domain.Document, job *domain.IndexingJob) error {
	highest, err := x.docStore.HighestChunkIndex(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("resume point: %w", err)
	}
	next := highest + 1

	spans := x.spansFor(doc)
	total := len(spans)
	job.TotalChunks = total

	// The floor guarantees the loop advances even when the configured
	// batch size is unusable.
	size := x.settings.BatchSize
	if size < 1 {
		size = 1
	}

	for next < total {
		if err := x.pace.Wait(ctx); err != nil {
			return err
		}
		batchStart := x.now()

		end := next + size
		if end > total {
			end = total
		}

		batch := make([]domain.Chunk, 0, end-next)
		for i := next; i < end; i++ {
			batch = append(batch, x.buildChunk(doc, i, spans[i]))
		}

		err := retry.Do(ctx, x.settings.MaxRetries, x.settings.RetryBaseDelay,
			func(ctx context.Context) error {
				return x.docStore.SaveChunks(ctx, batch)
			})
		if err != nil {
			return fmt.Errorf("save batch at %d: %w", next, err)
		}

		next = end
		if err := x.checkpointIndexing(ctx, job, len(batch), next, total, batchStart); err != nil {
			return err
		}
	}

	job.RemainingChunks = 0
	return x.saveJob(ctx, job)
}

// indexSpan is one pending chunk: its text, absolute offsets and
// optional section path.
type indexSpan struct {
	text  string
	start int
	end   int
	path  []string
}

// spansFor computes the chunk layout for a document. The layout is a
// pure function of the content and settings, which keeps chunk index
// assignment deterministic across resumes.
func (x *Indexer) spansFor(doc *domain.Document) []indexSpan {
	if doc.Structured {
		sections := chunker.SplitSections(doc.Content)
		spans := make([]indexSpan, 0, len(sections))
		for _, s := range sections {
			spans = append(spans, indexSpan{text: s.Text, start: s.Start, end: s.End, path: s.Path})
		}
		if len(spans) > 0 {
			return spans
		}
		// No headings found: fall through to fixed windows.
	}
	fixed := chunker.Split(doc.Content, x.settings.ChunkSize, x.settings.ChunkOverlap)
	spans := make([]indexSpan, 0, len(fixed))
	for _, s := range fixed {
		spans = append(spans, indexSpan{text: s.Text, start: s.Start, end: s.End})
	}
	return spans
}

// buildChunk runs the feature extractor over one span.
func (x *Indexer) buildChunk(doc *domain.Document, index int, span indexSpan) domain.Chunk {
	features := extract.Features(span.text, extract.Options{
		Math: x.settings.MathFeatures,
		Tags: x.settings.ArchitectureTags,
	})
	return domain.Chunk{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		Index:       index,
		Content:     span.text,
		Start:       span.start,
		End:         span.end,
		SectionPath: span.path,
		Features:    features,
	}
}

// checkpointIndexing updates counts, throughput EMA, ETA and progress
// after a persisted batch.
func (x *Indexer) checkpointIndexing(
	ctx context.Context,
	job *domain.IndexingJob,
	batchSize, done, total int,
	batchStart time.Time,
) error {
	job.ChunkCount = done
	job.RemainingChunks = total - done

	elapsed := x.now().Sub(batchStart)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	instant := float64(batchSize) / elapsed.Minutes()
	job.ThroughputPerMinute = emaUpdate(job.ThroughputPerMinute, instant, x.settings.EMAAlpha)
	job.ETASeconds = etaSeconds(job.RemainingChunks, job.ThroughputPerMinute)

	if total > 0 {
		job.AdvanceProgress(5 + 65*done/total)
	}
	job.UpdatedAt = x.now()

	logger.Debug("Batch checkpoint: %d/%d chunks, %.1f/min, ETA %ds",
		done, total, job.ThroughputPerMinute, job.ETASeconds)
	return x.saveJob(ctx, job)
}

// complete persists the consolidated summary and marks the job done.
func (x *Indexer) complete(ctx context.Context, job *domain.IndexingJob) error {
	job.Summary = consolidateSummary(job.Patterns)
	job.Phase = domain.PhaseCompleted
	job.AdvanceProgress(100)
	job.RemainingChunks = 0
	job.ETASeconds = 0
	job.ResumeAt = time.Time{}
	job.Notice = ""
	job.LastError = ""
	job.UpdatedAt = x.now()

	logger.Info("Job %s completed (%d chunks, %d patterns)", job.ID, job.ChunkCount, len(job.Patterns))
	return x.saveJob(ctx, job)
}

// fail routes a phase failure. Rate-limit rejections pause the job in
// its current phase with an automatic resume scheduled after the
// cooldown; context cancellation leaves the checkpointed state
// untouched; anything else marks the job errored with the message
// truncated.
func (x *Indexer) fail(ctx context.Context, job *domain.IndexingJob, phase domain.JobPhase, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if domain.IsRateLimited(err) {
		job.Phase = phase
		job.LastError = ""
		job.Notice = "cooling down after rate limit"
		job.ResumeAt = x.now().Add(x.settings.Cooldown + x.jitter(x.settings.CooldownJitter))
		job.UpdatedAt = x.now()
		logger.Warn("Rate limited in %s; auto-resume at %s", phase, job.ResumeAt.Format(time.RFC3339))

		// Persist the pause; the scheduler resumes it. The pause is
		// not an error from the caller's perspective.
		return x.saveJob(ctx, job)
	}

	job.SetError(err.Error())
	job.UpdatedAt = x.now()
	logger.Error("Job %s failed in %s: %v", job.ID, phase, err)
	if saveErr := x.saveJob(ctx, job); saveErr != nil {
		logger.Warn("Failed to persist error state: %v", saveErr)
	}
	return err
}

// transition moves the job into the next phase, validating against
// the ordered lifecycle.
func (x *Indexer) transition(ctx context.Context, job *domain.IndexingJob, next domain.JobPhase) error {
	if job.Phase != next && !job.Phase.CanTransition(next) {
		return fmt.Errorf("%w: cannot move job from %s to %s", domain.ErrInvalidInput, job.Phase, next)
	}
	job.Phase = next
	job.UpdatedAt = x.now()
	return x.saveJob(ctx, job)
}

// analysisEnabled reports whether the analysis phase has any work.
func (x *Indexer) analysisEnabled(job *domain.IndexingJob) bool {
	return x.generator != nil && job.Depth.BatchTarget(job.Passes) > 0
}

func (x *Indexer) saveJob(ctx context.Context, job *domain.IndexingJob) error {
	if err := x.jobStore.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

func (x *Indexer) acquire(documentID string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, busy := x.active[documentID]; busy {
		return false
	}
	x.active[documentID] = struct{}{}
	return true
}

func (x *Indexer) release(documentID string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.active, documentID)
}

// emaUpdate folds an instantaneous sample into the moving average.
func emaUpdate(old, instant, alpha float64) float64 {
	if old == 0 {
		return instant
	}
	return old*(1-alpha) + instant*alpha
}

// etaSeconds estimates remaining runtime from a per-minute rate.
func etaSeconds(remaining int, perMinute float64) int {
	if remaining <= 0 || perMinute <= 0 {
		return 0
	}
	return int(float64(remaining) / perMinute * 60)
}
