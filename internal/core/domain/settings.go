package domain

import "time"

// IndexingSettings holds every tuning value the orchestrator uses.
// The defaults are product-tuned; none of them is load-bearing and
// all are overridable from config.
type IndexingSettings struct {
	// ChunkSize is the fixed window size in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive windows.
	ChunkOverlap int

	// BatchSize bounds how many chunks are extracted and persisted
	// per batch, keeping burst load on the store small.
	BatchSize int

	// BatchDelay is the fixed pause between batches.
	BatchDelay time.Duration

	// EMAAlpha is the smoothing factor for throughput estimation:
	// new = old*(1-alpha) + instant*alpha.
	EMAAlpha float64

	// Cooldown is the pause before auto-resuming after a rate-limit
	// rejection.
	Cooldown time.Duration

	// CooldownJitter is the maximum random extra added to Cooldown
	// so parallel jobs do not resume in lockstep.
	CooldownJitter time.Duration

	// MaxRetries bounds retry attempts for a single remote call.
	MaxRetries int

	// RetryBaseDelay seeds the exponential retry schedule.
	RetryBaseDelay time.Duration

	// Depth selects the analysis batch budget.
	Depth AnalysisDepth

	// Passes is the number of analysis passes.
	Passes int

	// AnalysisBatchSize is the number of sampled chunks handed to
	// the generator per analysis call.
	AnalysisBatchSize int

	// MathFeatures enables LaTeX macro/symbol extraction and the
	// corresponding score boosts.
	MathFeatures bool

	// ArchitectureTags enables thematic tag detection and the
	// corresponding score boosts.
	ArchitectureTags bool
}

// Normalize clamps settings into the ranges the pipeline can run
// with. Configured values are user input; a zero batch size or pass
// count would stall the batch loops, so floors apply here rather
// than at every use site.
func (s *IndexingSettings) Normalize() {
	if s.ChunkSize < 1 {
		s.ChunkSize = 1
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = 0
	}
	if s.BatchSize < 1 {
		s.BatchSize = 1
	}
	if s.BatchDelay < 0 {
		s.BatchDelay = 0
	}
	if s.EMAAlpha <= 0 || s.EMAAlpha > 1 {
		s.EMAAlpha = DefaultIndexingSettings().EMAAlpha
	}
	if s.MaxRetries < 0 {
		s.MaxRetries = 0
	}
	if s.Passes < 1 {
		s.Passes = 1
	}
	if s.AnalysisBatchSize < 1 {
		s.AnalysisBatchSize = 1
	}
}

// DefaultIndexingSettings returns the tuned defaults.
func DefaultIndexingSettings() IndexingSettings {
	return IndexingSettings{
		ChunkSize:         1500,
		ChunkOverlap:      150,
		BatchSize:         10,
		BatchDelay:        500 * time.Millisecond,
		EMAAlpha:          0.3,
		Cooldown:          45 * time.Second,
		CooldownJitter:    15 * time.Second,
		MaxRetries:        3,
		RetryBaseDelay:    2 * time.Second,
		Depth:             DepthStandard,
		Passes:            1,
		AnalysisBatchSize: 4,
		MathFeatures:      true,
		ArchitectureTags:  true,
	}
}

// ScoreWeights holds the relevance-scoring constants. Scores have no
// absolute meaning; they exist only to rank candidates.
type ScoreWeights struct {
	// KeywordHit is added per query keyword found in the candidate.
	KeywordHit float64

	// NumberHit is added per query number found in the candidate.
	NumberHit float64

	// MarkerBoost is added when the candidate contains MarkerText.
	MarkerBoost float64

	// MarkerText is a domain-specific content marker. Configurable,
	// not load-bearing.
	MarkerText string

	// MacroScale converts macro-set size into a boost, capped at
	// MacroCap.
	MacroScale float64
	MacroCap   float64

	// SymbolScale converts symbol-set size into a boost, capped at
	// SymbolCap.
	SymbolScale float64
	SymbolCap   float64

	// ThemeMentionBoost is added per thematic query term, capped at
	// ThemeMentionCap.
	ThemeMentionBoost float64
	ThemeMentionCap   float64

	// TagScale converts tag-set size into a boost, capped at TagCap.
	TagScale float64
	TagCap   float64

	// LengthPrior is added when the candidate's length falls inside
	// [LengthMin, LengthMax).
	LengthPrior float64
	LengthMin   int
	LengthMax   int

	// NoteKeywordFactor multiplies keyword hits on learning notes.
	NoteKeywordFactor float64

	// NoteNumberPrior is added when a note contains a number.
	NoteNumberPrior float64

	// NoteRecencyPrior is a constant prior applied to every note.
	NoteRecencyPrior float64

	// TopChunks and TopNotes bound how much context feeds the
	// generation call.
	TopChunks int
	TopNotes  int
}

// DefaultScoreWeights returns the tuned scoring constants.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		KeywordHit:        1.0,
		NumberHit:         2.0,
		MarkerBoost:       2.5,
		MarkerText:        "lectern",
		MacroScale:        0.1,
		MacroCap:          2.0,
		SymbolScale:       0.05,
		SymbolCap:         1.0,
		ThemeMentionBoost: 1.0,
		ThemeMentionCap:   3.0,
		TagScale:          0.25,
		TagCap:            1.0,
		LengthPrior:       0.5,
		LengthMin:         400,
		LengthMax:         2200,
		NoteKeywordFactor: 1.2,
		NoteNumberPrior:   0.5,
		NoteRecencyPrior:  0.2,
		TopChunks:         6,
		TopNotes:          3,
	}
}
