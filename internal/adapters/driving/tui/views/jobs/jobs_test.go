package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

func TestView_EmptyList(t *testing.T) {
	v := NewView(nil)
	assert.Contains(t, v.View(), "No indexing jobs")
	assert.Nil(t, v.Selected())
}

func TestView_SelectionNavigation(t *testing.T) {
	v := NewView(nil)
	v.SetJobs([]domain.IndexingJob{
		{ID: "j1", DocumentID: "d1", Phase: domain.PhaseCompleted},
		{ID: "j2", DocumentID: "d2", Phase: domain.PhaseIndexing},
	}, nil)

	assert.Equal(t, 0, v.SelectedIndex())

	v.MoveDown()
	assert.Equal(t, 1, v.SelectedIndex())
	assert.Equal(t, "j2", v.Selected().ID)

	// Clamped at the last row
	v.MoveDown()
	assert.Equal(t, 1, v.SelectedIndex())

	v.MoveUp()
	v.MoveUp()
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_SelectionClampedOnShrink(t *testing.T) {
	v := NewView(nil)
	v.SetJobs([]domain.IndexingJob{
		{ID: "j1", DocumentID: "d1"},
		{ID: "j2", DocumentID: "d2"},
		{ID: "j3", DocumentID: "d3"},
	}, nil)
	v.MoveDown()
	v.MoveDown()

	v.SetJobs([]domain.IndexingJob{{ID: "j1", DocumentID: "d1"}}, nil)
	assert.Equal(t, 0, v.SelectedIndex())
	assert.Equal(t, "j1", v.Selected().ID)
}

func TestView_RendersTitlesAndDetail(t *testing.T) {
	v := NewView(nil)
	v.SetWidth(100)
	v.SetJobs([]domain.IndexingJob{
		{
			ID:                  "j1",
			DocumentID:          "d1",
			Phase:               domain.PhaseIndexing,
			Progress:            40,
			ChunkCount:          4,
			TotalChunks:         10,
			ThroughputPerMinute: 12.5,
			ETASeconds:          30,
		},
	}, map[string]string{"d1": "Quantum Mechanics"})

	out := v.View()
	assert.Contains(t, out, "Quantum Mechanics")
	assert.Contains(t, out, "indexing")
	assert.Contains(t, out, "4/10")
	assert.Contains(t, out, "12.5/min")
}

func TestView_DetailShowsPauseAndError(t *testing.T) {
	v := NewView(nil)
	v.SetJobs([]domain.IndexingJob{
		{ID: "j1", DocumentID: "d1", Phase: domain.PhaseError, LastError: "generator timeout"},
	}, nil)
	assert.Contains(t, v.View(), "generator timeout")

	v.SetJobs([]domain.IndexingJob{
		{ID: "j2", DocumentID: "d2", Phase: domain.PhaseIndexing, Notice: "cooling down after rate limit"},
	}, nil)
	assert.Contains(t, v.View(), "cooling down after rate limit")
}

func TestView_FallsBackToDocumentID(t *testing.T) {
	v := NewView(nil)
	v.SetJobs([]domain.IndexingJob{{ID: "j1", DocumentID: "doc-42"}}, nil)
	assert.Contains(t, v.View(), "doc-42")
}
