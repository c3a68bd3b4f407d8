package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

func TestNoteStore_SaveAndList(t *testing.T) {
	store := NewNoteStore()
	ctx := t.Context()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveNote(ctx, &domain.LearningNote{
		ID: "n1", Content: "older", Status: domain.NoteStatusActive, CreatedAt: base,
	}))
	require.NoError(t, store.SaveNote(ctx, &domain.LearningNote{
		ID: "n2", Content: "newer", Status: domain.NoteStatusActive, CreatedAt: base.Add(time.Hour),
	}))

	notes, err := store.ListNotes(ctx, domain.NoteStatusActive)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n2", notes[0].ID)
	assert.Equal(t, "n1", notes[1].ID)
}

func TestNoteStore_ListFiltersByStatus(t *testing.T) {
	store := NewNoteStore()
	ctx := t.Context()

	require.NoError(t, store.SaveNote(ctx, &domain.LearningNote{
		ID: "n1", Status: domain.NoteStatusActive,
	}))
	require.NoError(t, store.SaveNote(ctx, &domain.LearningNote{
		ID: "n2", Status: domain.NoteStatusArchived,
	}))

	active, err := store.ListNotes(ctx, domain.NoteStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "n1", active[0].ID)

	archived, err := store.ListNotes(ctx, domain.NoteStatusArchived)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "n2", archived[0].ID)
}

func TestNoteStore_SetNoteStatus(t *testing.T) {
	store := NewNoteStore()
	ctx := t.Context()

	require.NoError(t, store.SaveNote(ctx, &domain.LearningNote{
		ID: "n1", Status: domain.NoteStatusActive,
	}))
	require.NoError(t, store.SetNoteStatus(ctx, "n1", domain.NoteStatusArchived))

	active, err := store.ListNotes(ctx, domain.NoteStatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	err = store.SetNoteStatus(ctx, "missing", domain.NoteStatusArchived)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
