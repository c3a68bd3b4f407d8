package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/logger"
	"github.com/inkwell-labs/lectern/internal/retry"
)

// maxSummaryPatterns bounds how many patterns the consolidated
// summary lists.
const maxSummaryPatterns = 12

// patternSchema constrains generator output for an analysis batch.
var patternSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"patterns": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []string{"patterns"},
}

// analyze runs the deep-analysis batches over the densest chunks of
// the document. The batch counter on the job is the resume point, so
// an interrupted analysis picks up at the next unprocessed batch.
func (x *Indexer) analyze(ctx context.Context, doc *domain.Document, job *domain.IndexingJob) error {
	target := job.Depth.BatchTarget(job.Passes)
	if target <= 0 {
		return nil
	}

	chunks, err := x.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		job.AnalysisDone = target
		return x.saveJob(ctx, job)
	}

	sample := rankByDensity(chunks)
	// Persisted job rows may predate settings normalization, so the
	// pass count is clamped here as well.
	passes := job.Passes
	if passes < 1 {
		passes = 1
	}
	perPass := target / passes
	if perPass <= 0 {
		perPass = target
	}

	for b := job.AnalysisDone; b < target; b++ {
		if err := x.pace.Wait(ctx); err != nil {
			return err
		}
		batchStart := x.now()

		excerpts := x.analysisBatch(sample, b, perPass)
		pass := b/perPass + 1
		prompt := analysisPrompt(doc.Title, pass, excerpts)

		var raw string
		err := retry.Do(ctx, x.settings.MaxRetries, x.settings.RetryBaseDelay,
			func(ctx context.Context) error {
				var genErr error
				raw, genErr = x.generator.GenerateJSON(ctx, prompt, patternSchema)
				return genErr
			})
		if err != nil {
			return fmt.Errorf("analysis batch %d: %w", b, err)
		}

		job.Patterns = mergePatterns(job.Patterns, parsePatterns(raw))
		job.AnalysisDone = b + 1
		if err := x.checkpointAnalysis(ctx, job, target, batchStart); err != nil {
			return err
		}
	}
	return nil
}

// analysisBatch selects the excerpt texts for one batch. Batches walk
// the density-ranked sample within a pass; passes after the first
// revisit the same material so recurring structure surfaces.
func (x *Indexer) analysisBatch(sample []domain.Chunk, batch, perPass int) []string {
	size := x.settings.AnalysisBatchSize
	if size <= 0 {
		size = 1
	}
	offset := (batch % perPass) * size

	texts := make([]string, 0, size)
	for i := 0; i < size; i++ {
		texts = append(texts, sample[(offset+i)%len(sample)].Content)
	}
	return texts
}

// checkpointAnalysis updates throughput and progress after a batch.
// Throughput is tracked in batches per minute during this phase.
func (x *Indexer) checkpointAnalysis(ctx context.Context, job *domain.IndexingJob, target int, batchStart time.Time) error {
	elapsed := x.now().Sub(batchStart)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	instant := 1 / elapsed.Minutes()
	job.ThroughputPerMinute = emaUpdate(job.ThroughputPerMinute, instant, x.settings.EMAAlpha)
	job.ETASeconds = etaSeconds(target-job.AnalysisDone, job.ThroughputPerMinute)

	if target > 0 {
		job.AdvanceProgress(70 + 29*job.AnalysisDone/target)
	}
	job.UpdatedAt = x.now()

	logger.Debug("Analysis checkpoint: batch %d/%d, %d patterns", job.AnalysisDone, target, len(job.Patterns))
	return x.saveJob(ctx, job)
}

// rankByDensity orders chunks by how much extractable signal they
// carry. Numbers weigh double since quantitative passages tend to
// anchor the strongest patterns; medium-length chunks get a flat
// bonus over fragments and walls of prose.
func rankByDensity(chunks []domain.Chunk) []domain.Chunk {
	ranked := make([]domain.Chunk, len(chunks))
	copy(ranked, chunks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return densityScore(ranked[i]) > densityScore(ranked[j])
	})
	return ranked
}

func densityScore(c domain.Chunk) float64 {
	score := float64(2*len(c.Features.Numbers) + len(c.Features.Macros) + len(c.Features.Symbols))
	if n := len(c.Content); n >= 400 && n < 2200 {
		score += 3
	}
	return score
}

// analysisPrompt builds the generator request for one batch.
func analysisPrompt(title string, pass int, excerpts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing excerpts from the document %q (pass %d).\n", title, pass)
	b.WriteString("Identify recurring patterns: derivation techniques, notational conventions, problem archetypes, structural motifs.\n")
	b.WriteString("Return JSON with a \"patterns\" array of short declarative statements.\n\n")
	for i, text := range excerpts {
		fmt.Fprintf(&b, "--- Excerpt %d ---\n%s\n\n", i+1, text)
	}
	return b.String()
}

// parsePatterns reads the generator response. Well-formed responses
// carry a patterns array; anything else degrades to non-empty lines
// so a sloppy model still contributes.
func parsePatterns(raw string) []string {
	var payload struct {
		Patterns []string `json:"patterns"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err == nil && len(payload.Patterns) > 0 {
		return payload.Patterns
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. \t"))
		if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "}") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// mergePatterns appends new patterns, deduplicating case-insensitively
// while preserving first-seen order.
func mergePatterns(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	for _, p := range incoming {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if p == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		existing = append(existing, p)
	}
	return existing
}

// consolidateSummary folds the collected patterns into a single
// summary string for the completed job.
func consolidateSummary(patterns []string) string {
	if len(patterns) == 0 {
		return ""
	}
	top := patterns
	if len(top) > maxSummaryPatterns {
		top = top[:maxSummaryPatterns]
	}
	return fmt.Sprintf("%d patterns identified: %s", len(patterns), strings.Join(top, "; "))
}
