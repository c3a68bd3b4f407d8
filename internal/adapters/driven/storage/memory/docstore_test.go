package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := t.Context()

	doc := &domain.Document{ID: "d1", Title: "Waves", Content: "text"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Waves", got.Title)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListPreservesInsertionOrder(t *testing.T) {
	store := NewDocumentStore()
	ctx := t.Context()

	for _, id := range []string{"d3", "d1", "d2"} {
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: id}))
	}

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "d3", docs[0].ID)
	assert.Equal(t, "d1", docs[1].ID)
	assert.Equal(t, "d2", docs[2].ID)
}

func TestDocumentStore_ChunksSortedByIndex(t *testing.T) {
	store := NewDocumentStore()
	ctx := t.Context()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "d1"}))

	// Batches can arrive out of order on resume
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c2", DocumentID: "d1", Index: 2},
		{ID: "c0", DocumentID: "d1", Index: 0},
		{ID: "c1", DocumentID: "d1", Index: 1},
	}))

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestDocumentStore_HighestChunkIndex(t *testing.T) {
	store := NewDocumentStore()
	ctx := t.Context()

	// No chunks yet
	highest, err := store.HighestChunkIndex(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, -1, highest)

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c0", DocumentID: "d1", Index: 0},
		{ID: "c4", DocumentID: "d1", Index: 4},
	}))

	highest, err = store.HighestChunkIndex(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 4, highest)
}

func TestDocumentStore_DeleteChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := t.Context()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c0", DocumentID: "d1", Index: 0},
		{ID: "x0", DocumentID: "d2", Index: 0},
	}))
	require.NoError(t, store.DeleteChunks(ctx, "d1"))

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// Other documents untouched
	chunks, err = store.GetChunks(ctx, "d2")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}
