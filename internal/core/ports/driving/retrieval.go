package driving

import (
	"context"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// RankedChunk is a chunk with its relevance score for a query.
type RankedChunk struct {
	Chunk domain.Chunk
	Score float64
}

// RankedNote is a learning note with its relevance score for a query.
type RankedNote struct {
	Note  domain.LearningNote
	Score float64
}

// Answer is the result of a retrieval-augmented generation call.
type Answer struct {
	// Text is the generated response.
	Text string

	// Chunks are the context chunks that fed the prompt, ranked.
	Chunks []RankedChunk

	// Notes are the learning notes that fed the prompt, ranked.
	Notes []RankedNote
}

// RetrievalService ranks stored chunks and notes against a query and
// drives the downstream generation call.
type RetrievalService interface {
	// Ask ranks context, assembles a prompt from the top candidates
	// and invokes the generator.
	Ask(ctx context.Context, query string) (*Answer, error)

	// RankChunks returns the top-limit chunks for a query without
	// invoking generation. Ranking is deterministic and stable.
	RankChunks(ctx context.Context, query string, limit int) ([]RankedChunk, error)
}

// NoteService manages learning notes.
type NoteService interface {
	// Add captures a note, extracting its keyword set.
	Add(ctx context.Context, content, turnID string) (*domain.LearningNote, error)

	// List returns notes with the given status.
	List(ctx context.Context, status domain.NoteStatus) ([]domain.LearningNote, error)

	// Archive retires a note from ranking.
	Archive(ctx context.Context, id string) error
}
