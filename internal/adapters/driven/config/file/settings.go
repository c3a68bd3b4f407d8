package file

import (
	"time"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
)

// Config keys for the indexing pipeline. All are optional; missing
// keys keep the tuned defaults.
const (
	KeyChunkSize         = "indexing.chunk_size"
	KeyChunkOverlap      = "indexing.chunk_overlap"
	KeyBatchSize         = "indexing.batch_size"
	KeyBatchDelay        = "indexing.batch_delay"
	KeyEMAAlpha          = "indexing.ema_alpha"
	KeyCooldown          = "indexing.cooldown"
	KeyCooldownJitter    = "indexing.cooldown_jitter"
	KeyMaxRetries        = "indexing.max_retries"
	KeyRetryBaseDelay    = "indexing.retry_base_delay"
	KeyDepth             = "indexing.depth"
	KeyPasses            = "indexing.passes"
	KeyAnalysisBatchSize = "indexing.analysis_batch_size"
	KeyMathFeatures      = "indexing.math_features"
	KeyArchitectureTags  = "indexing.architecture_tags"

	KeyKeywordHit        = "scoring.keyword_hit"
	KeyNumberHit         = "scoring.number_hit"
	KeyMarkerBoost       = "scoring.marker_boost"
	KeyMarkerText        = "scoring.marker_text"
	KeyMacroScale        = "scoring.macro_scale"
	KeyMacroCap          = "scoring.macro_cap"
	KeySymbolScale       = "scoring.symbol_scale"
	KeySymbolCap         = "scoring.symbol_cap"
	KeyThemeMentionBoost = "scoring.theme_mention_boost"
	KeyThemeMentionCap   = "scoring.theme_mention_cap"
	KeyTagScale          = "scoring.tag_scale"
	KeyTagCap            = "scoring.tag_cap"
	KeyLengthPrior       = "scoring.length_prior"
	KeyLengthMin         = "scoring.length_min"
	KeyLengthMax         = "scoring.length_max"
	KeyNoteKeywordFactor = "scoring.note_keyword_factor"
	KeyNoteNumberPrior   = "scoring.note_number_prior"
	KeyNoteRecencyPrior  = "scoring.note_recency_prior"
	KeyTopChunks         = "scoring.top_chunks"
	KeyTopNotes          = "scoring.top_notes"
	KeyTagPreset         = "scoring.tag_preset"

	KeyProvider = "llm.provider"
	KeyAPIKey   = "llm.api_key"
	KeyModel    = "llm.model"
	KeyBaseURL  = "llm.base_url"

	KeyDataDir = "storage.data_dir"
)

// IndexingSettings reads the indexing configuration, overlaying
// configured keys on the tuned defaults. The result is normalized:
// config values that would stall the pipeline, a zero batch size or
// pass count, are clamped to usable floors.
func IndexingSettings(cfg driven.ConfigStore) domain.IndexingSettings {
	s := domain.DefaultIndexingSettings()

	overlayInt(cfg, KeyChunkSize, &s.ChunkSize)
	overlayInt(cfg, KeyChunkOverlap, &s.ChunkOverlap)
	overlayInt(cfg, KeyBatchSize, &s.BatchSize)
	overlayDuration(cfg, KeyBatchDelay, &s.BatchDelay)
	overlayFloat(cfg, KeyEMAAlpha, &s.EMAAlpha)
	overlayDuration(cfg, KeyCooldown, &s.Cooldown)
	overlayDuration(cfg, KeyCooldownJitter, &s.CooldownJitter)
	overlayInt(cfg, KeyMaxRetries, &s.MaxRetries)
	overlayDuration(cfg, KeyRetryBaseDelay, &s.RetryBaseDelay)
	overlayInt(cfg, KeyPasses, &s.Passes)
	overlayInt(cfg, KeyAnalysisBatchSize, &s.AnalysisBatchSize)
	overlayBool(cfg, KeyMathFeatures, &s.MathFeatures)
	overlayBool(cfg, KeyArchitectureTags, &s.ArchitectureTags)

	if depth := domain.AnalysisDepth(cfg.GetString(KeyDepth)); depth != "" {
		s.Depth = depth
	}
	s.Normalize()
	return s
}

// ScoreWeights reads the scoring configuration, overlaying configured
// keys on the tuned defaults.
func ScoreWeights(cfg driven.ConfigStore) domain.ScoreWeights {
	w := domain.DefaultScoreWeights()

	overlayFloat(cfg, KeyKeywordHit, &w.KeywordHit)
	overlayFloat(cfg, KeyNumberHit, &w.NumberHit)
	overlayFloat(cfg, KeyMarkerBoost, &w.MarkerBoost)
	if marker := cfg.GetString(KeyMarkerText); marker != "" {
		w.MarkerText = marker
	}
	overlayFloat(cfg, KeyMacroScale, &w.MacroScale)
	overlayFloat(cfg, KeyMacroCap, &w.MacroCap)
	overlayFloat(cfg, KeySymbolScale, &w.SymbolScale)
	overlayFloat(cfg, KeySymbolCap, &w.SymbolCap)
	overlayFloat(cfg, KeyThemeMentionBoost, &w.ThemeMentionBoost)
	overlayFloat(cfg, KeyThemeMentionCap, &w.ThemeMentionCap)
	overlayFloat(cfg, KeyTagScale, &w.TagScale)
	overlayFloat(cfg, KeyTagCap, &w.TagCap)
	overlayFloat(cfg, KeyLengthPrior, &w.LengthPrior)
	overlayInt(cfg, KeyLengthMin, &w.LengthMin)
	overlayInt(cfg, KeyLengthMax, &w.LengthMax)
	overlayFloat(cfg, KeyNoteKeywordFactor, &w.NoteKeywordFactor)
	overlayFloat(cfg, KeyNoteNumberPrior, &w.NoteNumberPrior)
	overlayFloat(cfg, KeyNoteRecencyPrior, &w.NoteRecencyPrior)
	overlayInt(cfg, KeyTopChunks, &w.TopChunks)
	overlayInt(cfg, KeyTopNotes, &w.TopNotes)
	return w
}

func overlayInt(cfg driven.ConfigStore, key string, dst *int) {
	if _, ok := cfg.Get(key); ok {
		*dst = cfg.GetInt(key)
	}
}

// overlayFloat accepts either TOML form of a number; "0.3" and "2"
// both overlay.
func overlayFloat(cfg driven.ConfigStore, key string, dst *float64) {
	val, ok := cfg.Get(key)
	if !ok {
		return
	}
	switch v := val.(type) {
	case float64:
		*dst = v
	case int64:
		*dst = float64(v)
	case int:
		*dst = float64(v)
	}
}

func overlayBool(cfg driven.ConfigStore, key string, dst *bool) {
	if _, ok := cfg.Get(key); ok {
		*dst = cfg.GetBool(key)
	}
}

// overlayDuration parses a Go duration string ("500ms", "45s").
// Unparseable values keep the default.
func overlayDuration(cfg driven.ConfigStore, key string, dst *time.Duration) {
	raw := cfg.GetString(key)
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		*dst = d
	}
}
