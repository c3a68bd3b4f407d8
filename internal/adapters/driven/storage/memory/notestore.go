package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

// NoteStore is an in-memory implementation of driven.NoteStore.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[string]domain.LearningNote
}

// NewNoteStore creates a new in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{notes: make(map[string]domain.LearningNote)}
}

// SaveNote stores a note.
func (s *NoteStore) SaveNote(_ context.Context, note *domain.LearningNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *note
	clone.Keywords = append([]string(nil), note.Keywords...)
	s.notes[note.ID] = clone
	return nil
}

// ListNotes returns notes with the given status, newest first.
func (s *NoteStore) ListNotes(_ context.Context, status domain.NoteStatus) ([]domain.LearningNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.LearningNote
	for _, note := range s.notes {
		if note.Status == status {
			result = append(result, note)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// SetNoteStatus updates a note's status.
func (s *NoteStore) SetNoteStatus(_ context.Context, id string, status domain.NoteStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return domain.ErrNotFound
	}
	note.Status = status
	s.notes[id] = note
	return nil
}
