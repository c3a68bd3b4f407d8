package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
	"github.com/inkwell-labs/lectern/internal/extract"
)

// Ensure Notes implements the interface.
var _ driving.NoteService = (*Notes)(nil)

// Notes captures and manages learning notes.
type Notes struct {
	store driven.NoteStore
	now   func() time.Time
}

// NewNotes creates the note service.
func NewNotes(store driven.NoteStore) *Notes {
	return &Notes{store: store, now: time.Now}
}

// Add captures a note. The keyword set is extracted at capture time so
// ranking never re-tokenizes note content.
func (s *Notes) Add(ctx context.Context, content, turnID string) (*domain.LearningNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty note", domain.ErrInvalidInput)
	}

	note := &domain.LearningNote{
		ID:        uuid.New().String(),
		Content:   content,
		Keywords:  extract.Keywords(content),
		TurnID:    turnID,
		Status:    domain.NoteStatusActive,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	return note, nil
}

// List returns notes with the given status, newest first.
func (s *Notes) List(ctx context.Context, status domain.NoteStatus) ([]domain.LearningNote, error) {
	return s.store.ListNotes(ctx, status)
}

// Archive retires a note from ranking. Archiving is idempotent.
func (s *Notes) Archive(ctx context.Context, id string) error {
	if err := s.store.SetNoteStatus(ctx, id, domain.NoteStatusArchived); err != nil {
		return fmt.Errorf("archive note: %w", err)
	}
	return nil
}
