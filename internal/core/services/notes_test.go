package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/lectern/internal/adapters/driven/storage/memory"
	"github.com/inkwell-labs/lectern/internal/core/domain"
)

func TestNotes_Add(t *testing.T) {
	store := memory.NewNoteStore()
	svc := NewNotes(store)

	note, err := svc.Add(context.Background(), "  Struggles with partial derivatives  ", "turn-7")
	require.NoError(t, err)

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "Struggles with partial derivatives", note.Content)
	assert.Equal(t, "turn-7", note.TurnID)
	assert.Equal(t, domain.NoteStatusActive, note.Status)
	assert.Contains(t, note.Keywords, "struggles")
	assert.Contains(t, note.Keywords, "partial")
	assert.Contains(t, note.Keywords, "derivatives")
}

func TestNotes_AddEmpty(t *testing.T) {
	svc := NewNotes(memory.NewNoteStore())
	_, err := svc.Add(context.Background(), "   ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNotes_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewNoteStore()
	svc := NewNotes(store)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := 0
	svc.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Minute)
	}

	first, err := svc.Add(ctx, "older note", "")
	require.NoError(t, err)
	second, err := svc.Add(ctx, "newer note", "")
	require.NoError(t, err)

	notes, err := svc.List(ctx, domain.NoteStatusActive)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)
}

func TestNotes_Archive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewNoteStore()
	svc := NewNotes(store)

	note, err := svc.Add(ctx, "temporary note", "")
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, note.ID))
	// Archiving again is a no-op, not an error.
	require.NoError(t, svc.Archive(ctx, note.ID))

	active, err := svc.List(ctx, domain.NoteStatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := svc.List(ctx, domain.NoteStatusArchived)
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestNotes_ArchiveMissing(t *testing.T) {
	svc := NewNotes(memory.NewNoteStore())
	err := svc.Archive(context.Background(), "no-such-note")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
