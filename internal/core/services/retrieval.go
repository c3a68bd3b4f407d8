package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
	"github.com/inkwell-labs/lectern/internal/extract"
	"github.com/inkwell-labs/lectern/internal/logger"
	"github.com/inkwell-labs/lectern/internal/retry"
)

// Ensure Retrieval implements the interface.
var _ driving.RetrievalService = (*Retrieval)(nil)

// Retrieval ranks stored chunks and learning notes against a query
// and assembles the generation prompt from the winners. Ranking is a
// pure function of the stored feature sets and the weights, so equal
// inputs always produce the same ordering.
type Retrieval struct {
	docStore  driven.DocumentStore
	noteStore driven.NoteStore
	generator driven.Generator
	weights   domain.ScoreWeights
}

// NewRetrieval creates the retrieval service. The generator may be
// nil, in which case Ask fails but RankChunks still works.
func NewRetrieval(
	docStore driven.DocumentStore,
	noteStore driven.NoteStore,
	generator driven.Generator,
	weights domain.ScoreWeights,
) *Retrieval {
	return &Retrieval{
		docStore:  docStore,
		noteStore: noteStore,
		generator: generator,
		weights:   weights,
	}
}

// query is the parsed form of a user question.
type query struct {
	raw      string
	keywords []string
	numbers  []string
	themes   []string
}

// parseQuery tokenizes a question into lowercase keywords (alphabetic
// runs of three or more characters), numeric literals, and thematic
// terms.
func parseQuery(raw string) query {
	q := query{raw: raw}

	lower := strings.ToLower(raw)
	var run strings.Builder
	flush := func() {
		if run.Len() >= 3 {
			q.keywords = append(q.keywords, run.String())
		}
		run.Reset()
	}
	for _, r := range lower {
		if r >= 'a' && r <= 'z' {
			run.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	q.numbers = extract.Numbers(raw)

	for _, theme := range extract.ThemeTerms {
		if strings.Contains(lower, theme) {
			q.themes = append(q.themes, theme)
		}
	}
	return q
}

// Ask ranks context, assembles a prompt from the top candidates and
// invokes the generator.
func (r *Retrieval) Ask(ctx context.Context, question string) (*driving.Answer, error) {
	if r.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	chunks, err := r.RankChunks(ctx, question, r.weights.TopChunks)
	if err != nil {
		return nil, err
	}
	notes, err := r.rankNotes(ctx, question, r.weights.TopNotes)
	if err != nil {
		return nil, err
	}

	prompt := r.buildPrompt(question, chunks, notes)
	logger.Debug("Ask: %d chunks, %d notes in context", len(chunks), len(notes))

	var text string
	err = retry.Do(ctx, 3, 0, func(ctx context.Context) error {
		var genErr error
		text, genErr = r.generator.Generate(ctx, prompt, driven.GenerateOptions{})
		return genErr
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &driving.Answer{Text: text, Chunks: chunks, Notes: notes}, nil
}

// RankChunks scores every stored chunk against the query and returns
// the top limit by score. Ties keep store order, which is stable
// across calls.
func (r *Retrieval) RankChunks(ctx context.Context, question string, limit int) ([]driving.RankedChunk, error) {
	q := parseQuery(question)

	chunks, err := r.docStore.ListChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	ranked := make([]driving.RankedChunk, 0, len(chunks))
	for _, c := range chunks {
		ranked = append(ranked, driving.RankedChunk{Chunk: c, Score: r.scoreChunk(q, &c)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// scoreChunk computes the relevance score for one chunk. The score is
// additive: query-match terms, content markers, markup density boosts
// and a length prior.
func (r *Retrieval) scoreChunk(q query, c *domain.Chunk) float64 {
	w := r.weights
	var score float64

	for _, kw := range q.keywords {
		if c.Features.HasKeyword(kw) {
			score += w.KeywordHit
		}
	}
	for _, num := range q.numbers {
		if c.Features.HasNumber(num) {
			score += w.NumberHit
		}
	}

	if w.MarkerText != "" && strings.Contains(strings.ToLower(c.Content), w.MarkerText) {
		score += w.MarkerBoost
	}

	score += capped(float64(len(c.Features.Macros))*w.MacroScale, w.MacroCap)
	score += capped(float64(len(c.Features.Symbols))*w.SymbolScale, w.SymbolCap)

	lowerContent := strings.ToLower(c.Content)
	var themeBoost float64
	for _, theme := range q.themes {
		if strings.Contains(lowerContent, theme) {
			themeBoost += w.ThemeMentionBoost
		}
	}
	score += capped(themeBoost, w.ThemeMentionCap)

	score += capped(float64(len(c.Features.Tags))*w.TagScale, w.TagCap)

	if n := len(c.Content); n >= w.LengthMin && n < w.LengthMax {
		score += w.LengthPrior
	}
	return score
}

// rankNotes scores active learning notes. Notes use a distinct
// weighting: keyword hits count more than on chunks, a numeric prior
// rewards quantitative notes, and every note carries a small constant
// prior so recent captures surface even without term overlap.
func (r *Retrieval) rankNotes(ctx context.Context, question string, limit int) ([]driving.RankedNote, error) {
	q := parseQuery(question)

	notes, err := r.noteStore.ListNotes(ctx, domain.NoteStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	ranked := make([]driving.RankedNote, 0, len(notes))
	for _, n := range notes {
		ranked = append(ranked, driving.RankedNote{Note: n, Score: r.scoreNote(q, &n)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (r *Retrieval) scoreNote(q query, n *domain.LearningNote) float64 {
	w := r.weights
	var score float64

	for _, kw := range q.keywords {
		for _, noteKw := range n.Keywords {
			if noteKw == kw {
				score += w.KeywordHit * w.NoteKeywordFactor
				break
			}
		}
	}
	if n.ContainsNumber() {
		score += w.NoteNumberPrior
	}
	score += w.NoteRecencyPrior
	return score
}

// buildPrompt assembles context sections and the question into the
// generation prompt.
func (r *Retrieval) buildPrompt(question string, chunks []driving.RankedChunk, notes []driving.RankedNote) string {
	var b strings.Builder
	b.WriteString("Answer the question using the context below. Cite sections when they are named.\n\n")

	if len(chunks) > 0 {
		b.WriteString("## Context\n\n")
		for _, rc := range chunks {
			if len(rc.Chunk.SectionPath) > 0 {
				fmt.Fprintf(&b, "[%s]\n", strings.Join(rc.Chunk.SectionPath, " > "))
			}
			b.WriteString(rc.Chunk.Content)
			b.WriteString("\n\n")
		}
	}
	if len(notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, rn := range notes {
			fmt.Fprintf(&b, "- %s\n", rn.Note.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Question\n\n%s\n", question)
	return b.String()
}

func capped(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}
