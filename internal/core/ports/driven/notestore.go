package driven

import (
	"context"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// NoteStore persists learning notes. Notes are append-only except for
// their status field.
type NoteStore interface {
	// SaveNote stores a note.
	SaveNote(ctx context.Context, note *domain.LearningNote) error

	// ListNotes returns notes with the given status ordered by
	// creation time descending.
	ListNotes(ctx context.Context, status domain.NoteStatus) ([]domain.LearningNote, error)

	// SetNoteStatus updates the only mutable field of a note.
	SetNoteStatus(ctx context.Context, id string, status domain.NoteStatus) error
}
