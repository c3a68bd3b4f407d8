package domain

import "time"

// JobPhase identifies where an indexing job is in its lifecycle.
type JobPhase string

// Phases in lifecycle order. Error is reachable from any in-progress
// phase and is itself non-terminal: an errored job resumes into the
// phase it failed from.
const (
	PhaseQueued        JobPhase = "queued"
	PhasePreprocessing JobPhase = "preprocessing"
	PhaseIndexing      JobPhase = "indexing"
	PhaseAnalyzing     JobPhase = "analyzing"
	PhaseCompleted     JobPhase = "completed"
	PhaseError         JobPhase = "error"
)

// phaseOrder ranks the ordered phases for transition checks.
var phaseOrder = map[JobPhase]int{
	PhaseQueued:        0,
	PhasePreprocessing: 1,
	PhaseIndexing:      2,
	PhaseAnalyzing:     3,
	PhaseCompleted:     4,
}

// IsValid returns true if the phase is recognised.
func (p JobPhase) IsValid() bool {
	switch p {
	case PhaseQueued, PhasePreprocessing, PhaseIndexing, PhaseAnalyzing,
		PhaseCompleted, PhaseError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once no further work remains.
// Error is deliberately not terminal: errored jobs are resumable.
func (p JobPhase) IsTerminal() bool {
	return p == PhaseCompleted
}

// InProgress returns true for the three working phases.
func (p JobPhase) InProgress() bool {
	return p == PhasePreprocessing || p == PhaseIndexing || p == PhaseAnalyzing
}

// CanTransition reports whether moving from p to next respects the
// ordered lifecycle. Error is reachable from any in-progress phase,
// and any non-terminal phase may re-enter itself on resume.
func (p JobPhase) CanTransition(next JobPhase) bool {
	if !next.IsValid() {
		return false
	}
	if next == PhaseError {
		return p.InProgress()
	}
	if p == PhaseError {
		return next.InProgress() || next == PhaseCompleted
	}
	from, okFrom := phaseOrder[p]
	to, okTo := phaseOrder[next]
	if !okFrom || !okTo {
		return false
	}
	return to == from || to == from+1 || next == PhaseCompleted
}

// String returns the string representation.
func (p JobPhase) String() string {
	return string(p)
}

// AnalysisDepth selects how many generator batches the analysis phase
// spends per pass.
type AnalysisDepth string

// Available analysis depths.
const (
	DepthStandard   AnalysisDepth = "standard"
	DepthDeep       AnalysisDepth = "deep"
	DepthExhaustive AnalysisDepth = "exhaustive"
)

// BatchTarget returns the total analysis batch budget for this depth
// multiplied by the number of passes. Unknown depths fall back to
// standard.
func (d AnalysisDepth) BatchTarget(passes int) int {
	if passes < 1 {
		passes = 1
	}
	base := 8
	switch d {
	case DepthDeep:
		base = 18
	case DepthExhaustive:
		base = 36
	}
	return base * passes
}

// IndexingJob is the persisted progress record for one document's
// indexing run. At most one job exists per document; interrupted runs
// are resumed, never recreated. The job record is mutated exclusively
// by the indexing orchestrator.
type IndexingJob struct {
	// ID is the unique identifier for the job.
	ID string

	// DocumentID links to the document being indexed.
	DocumentID string

	// Phase is the current lifecycle phase.
	Phase JobPhase

	// Progress is 0-100 and non-decreasing while the ordered phases
	// advance. See AdvanceProgress.
	Progress int

	// TotalChunks is the expected chunk count computed during
	// preprocessing (0 until known).
	TotalChunks int

	// ChunkCount is the number of chunks persisted so far.
	ChunkCount int

	// RemainingChunks is TotalChunks - ChunkCount, floored at 0.
	RemainingChunks int

	// ThroughputPerMinute is an exponential moving average of
	// chunks (or analysis batches) processed per minute.
	ThroughputPerMinute float64

	// ETASeconds estimates remaining runtime from the throughput EMA.
	ETASeconds int

	// Depth selects the analysis batch budget.
	Depth AnalysisDepth

	// Passes is the number of analysis passes to run.
	Passes int

	// AnalysisDone counts completed analysis batches across passes.
	AnalysisDone int

	// Patterns accumulates deduplicated analysis observations.
	Patterns []string

	// Summary is the consolidated free-text summary persisted at
	// completion.
	Summary string

	// LastError holds the failure message (truncated to 500 chars)
	// for fatal errors. Empty for rate-limit pauses.
	LastError string

	// Notice is a non-fatal user-visible status line, e.g. a
	// cooling-down message during a rate-limit pause.
	Notice string

	// ResumeAt schedules an automatic resume after a rate-limit
	// pause. Zero when no resume is pending.
	ResumeAt time.Time

	// CreatedAt is when the job was first queued.
	CreatedAt time.Time

	// UpdatedAt is when the job record was last checkpointed.
	UpdatedAt time.Time
}

// maxErrorLen bounds LastError so oversized upstream messages never
// bloat the job record.
const maxErrorLen = 500

// SetError records a fatal failure. The phase moves to error and the
// message is truncated.
func (j *IndexingJob) SetError(msg string) {
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	j.Phase = PhaseError
	j.LastError = msg
	j.Notice = ""
}

// AdvanceProgress raises Progress to pct, never lowering it. Progress
// regression only happens through an explicit rebuild, which creates a
// fresh job record.
func (j *IndexingJob) AdvanceProgress(pct int) {
	if pct > 100 {
		pct = 100
	}
	if pct > j.Progress {
		j.Progress = pct
	}
}

// ResumePhase returns the phase a paused or errored job should
// re-enter. Jobs that never left queued restart from the beginning.
func (j *IndexingJob) ResumePhase() JobPhase {
	switch {
	case j.Phase.InProgress():
		return j.Phase
	case j.Phase == PhaseError:
		// Resume point is recomputed from persisted chunks, so
		// re-entering indexing is always safe: preprocessing work
		// is cheap and idempotent.
		if j.AnalysisDone > 0 {
			return PhaseAnalyzing
		}
		return PhasePreprocessing
	default:
		return PhaseQueued
	}
}
