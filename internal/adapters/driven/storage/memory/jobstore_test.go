package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

func TestJobStore_SaveAndGet(t *testing.T) {
	store := NewJobStore()
	ctx := t.Context()

	job := &domain.IndexingJob{ID: "j1", DocumentID: "d1", Phase: domain.PhaseQueued}
	require.NoError(t, store.SaveJob(ctx, job))

	got, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseQueued, got.Phase)

	_, err = store.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobStore_GetJobForDocument(t *testing.T) {
	store := NewJobStore()
	ctx := t.Context()

	require.NoError(t, store.SaveJob(ctx, &domain.IndexingJob{ID: "j1", DocumentID: "d1"}))

	got, err := store.GetJobForDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "j1", got.ID)

	// Missing job is nil, nil: callers create the job on first run
	got, err = store.GetJobForDocument(ctx, "d2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestJobStore_ReturnsCopies(t *testing.T) {
	store := NewJobStore()
	ctx := t.Context()

	require.NoError(t, store.SaveJob(ctx, &domain.IndexingJob{
		ID: "j1", DocumentID: "d1", Patterns: []string{"one"},
	}))

	got, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	got.Phase = domain.PhaseCompleted
	got.Patterns[0] = "mutated"

	fresh, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.NotEqual(t, domain.PhaseCompleted, fresh.Phase)
	assert.Equal(t, "one", fresh.Patterns[0])
}

func TestJobStore_ListSortedByCreation(t *testing.T) {
	store := NewJobStore()
	ctx := t.Context()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveJob(ctx, &domain.IndexingJob{ID: "j2", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.SaveJob(ctx, &domain.IndexingJob{ID: "j1", CreatedAt: base}))

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.Equal(t, "j2", jobs[1].ID)
}

func TestJobStore_Delete(t *testing.T) {
	store := NewJobStore()
	ctx := t.Context()

	require.NoError(t, store.SaveJob(ctx, &domain.IndexingJob{ID: "j1"}))
	require.NoError(t, store.DeleteJob(ctx, "j1"))

	_, err := store.GetJob(ctx, "j1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
