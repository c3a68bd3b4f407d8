package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/lectern/internal/adapters/driven/storage/memory"
	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
)

// idxGenerator implements driven.Generator for orchestrator tests.
type idxGenerator struct {
	jsonCalls int
	jsonOut   string
	jsonErr   error
}

func (g *idxGenerator) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", nil
}

func (g *idxGenerator) GenerateJSON(_ context.Context, _ string, _ map[string]any) (string, error) {
	g.jsonCalls++
	if g.jsonErr != nil {
		return "", g.jsonErr
	}
	return g.jsonOut, nil
}

func (g *idxGenerator) ModelName() string { return "test-model" }
func (g *idxGenerator) Close() error      { return nil }

// recordingDocStore wraps the memory store to observe and fail batch
// writes.
type recordingDocStore struct {
	*memory.DocumentStore
	batches [][]domain.Chunk
	saveErr error
}

func (s *recordingDocStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.batches = append(s.batches, chunks)
	return s.DocumentStore.SaveChunks(ctx, chunks)
}

func fastSettings() domain.IndexingSettings {
	s := domain.DefaultIndexingSettings()
	s.BatchDelay = 0
	s.MaxRetries = 0
	s.RetryBaseDelay = time.Millisecond
	return s
}

func seedDocument(t *testing.T, store *memory.DocumentStore, content string) *domain.Document {
	t.Helper()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Title:     "Test Document",
		URI:       "file:///test.txt",
		Content:   content,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.SaveDocument(context.Background(), doc))
	return doc
}

func TestIndexer_RunCompletes(t *testing.T) {
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, docStore, strings.Repeat("momentum energy force ", 160))

	idx := NewIndexer(docStore, jobStore, nil, fastSettings())
	require.NoError(t, idx.Run(context.Background(), doc.ID))

	job, err := idx.Status(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCompleted, job.Phase)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, 0, job.RemainingChunks)
	assert.Equal(t, job.TotalChunks, job.ChunkCount)
	assert.Empty(t, job.LastError)

	chunks, err := docStore.GetChunks(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, job.ChunkCount, len(chunks))
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, doc.Content[c.Start:c.End], c.Content)
		assert.NotEmpty(t, c.Features.Keywords)
	}
}

func TestIndexer_ExactChunkOffsets(t *testing.T) {
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, docStore, strings.Repeat("x", 3500))

	idx := NewIndexer(docStore, jobStore, nil, fastSettings())
	require.NoError(t, idx.Run(context.Background(), doc.ID))

	chunks, err := docStore.GetChunks(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 1500, chunks[0].End)
	assert.Equal(t, 1350, chunks[1].Start)
	assert.Equal(t, 2850, chunks[1].End)
	assert.Equal(t, 2700, chunks[2].Start)
	assert.Equal(t, 3500, chunks[2].End)
}

func TestIndexer_ZeroBatchSizeStillAdvances(t *testing.T) {
	ctx := context.Background()
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, docStore, strings.Repeat("x", 3500))

	settings := fastSettings()
	settings.BatchSize = 0

	idx := NewIndexer(docStore, jobStore, nil, settings)
	require.NoError(t, idx.Run(ctx, doc.ID))

	job, err := idx.Status(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCompleted, job.Phase)

	chunks, err := docStore.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestIndexer_ResumeSkipsPersistedChunks(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, base, strings.Repeat("x", 3500))

	idx := NewIndexer(base, jobStore, nil, fastSettings())
	spans := idx.spansFor(doc)
	require.Len(t, spans, 3)

	// First two chunks already persisted by an interrupted run.
	require.NoError(t, base.SaveChunks(ctx, []domain.Chunk{
		idx.buildChunk(doc, 0, spans[0]),
		idx.buildChunk(doc, 1, spans[1]),
	}))
	require.NoError(t, jobStore.SaveJob(ctx, &domain.IndexingJob{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		Phase:       domain.PhaseIndexing,
		TotalChunks: 3,
		ChunkCount:  2,
		CreatedAt:   time.Now(),
	}))

	recorder := &recordingDocStore{DocumentStore: base}
	idx = NewIndexer(recorder, jobStore, nil, fastSettings())
	require.NoError(t, idx.Run(ctx, doc.ID))

	require.Len(t, recorder.batches, 1)
	require.Len(t, recorder.batches[0], 1)
	assert.Equal(t, 2, recorder.batches[0][0].Index)

	chunks, err := base.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestIndexer_RateLimitPausesWithCooldown(t *testing.T) {
	ctx := context.Background()
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, docStore, strings.Repeat("quantum state vector ", 200))

	gen := &idxGenerator{jsonErr: &domain.RateLimitError{}}
	settings := fastSettings()
	idx := NewIndexer(docStore, jobStore, gen, settings)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	idx.now = func() time.Time { return base }
	idx.jitter = func(time.Duration) time.Duration { return 3 * time.Second }

	// A pause is not an error from the caller's perspective.
	require.NoError(t, idx.Run(ctx, doc.ID))

	job, err := idx.Status(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAnalyzing, job.Phase)
	assert.Empty(t, job.LastError)
	assert.NotEmpty(t, job.Notice)
	assert.Equal(t, base.Add(settings.Cooldown+3*time.Second), job.ResumeAt)
}

func TestIndexer_FatalErrorTruncated(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, base, strings.Repeat("x", 3500))

	longMsg := strings.Repeat("disk full ", 80)
	recorder := &recordingDocStore{DocumentStore: base, saveErr: errors.New(longMsg)}
	idx := NewIndexer(recorder, jobStore, nil, fastSettings())

	err := idx.Run(ctx, doc.ID)
	require.Error(t, err)

	job, statusErr := idx.Status(ctx, doc.ID)
	require.NoError(t, statusErr)
	assert.Equal(t, domain.PhaseError, job.Phase)
	assert.NotEmpty(t, job.LastError)
	assert.LessOrEqual(t, len(job.LastError), 500)
	assert.True(t, job.ResumeAt.IsZero())
}

func TestIndexer_CompletedJobRejectsRun(t *testing.T) {
	ctx := context.Background()
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, docStore, strings.Repeat("x", 100))

	idx := NewIndexer(docStore, jobStore, nil, fastSettings())
	require.NoError(t, idx.Run(ctx, doc.ID))

	err := idx.Run(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrJobCompleted)
}

func TestIndexer_ConcurrentRunRejected(t *testing.T) {
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	idx := NewIndexer(docStore, jobStore, nil, fastSettings())

	require.True(t, idx.acquire("doc-1"))
	err := idx.Run(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrJobInProgress)
	idx.release("doc-1")
}

func TestIndexer_FinalizeSkipsAnalysis(t *testing.T) {
	ctx := context.Background()
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, docStore, strings.Repeat("x", 100))

	require.NoError(t, jobStore.SaveJob(ctx, &domain.IndexingJob{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Phase:      domain.PhaseAnalyzing,
		Progress:   80,
		Patterns:   []string{"uses integral transforms"},
		CreatedAt:  time.Now(),
	}))

	idx := NewIndexer(docStore, jobStore, nil, fastSettings())
	require.NoError(t, idx.Finalize(ctx, doc.ID))

	job, err := idx.Status(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCompleted, job.Phase)
	assert.Equal(t, 100, job.Progress)
	assert.Contains(t, job.Summary, "uses integral transforms")
}

func TestIndexer_FinalizeMissingJob(t *testing.T) {
	idx := NewIndexer(memory.NewDocumentStore(), memory.NewJobStore(), nil, fastSettings())
	err := idx.Finalize(context.Background(), "no-such-doc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexer_RebuildClearsState(t *testing.T) {
	ctx := context.Background()
	docStore := memory.NewDocumentStore()
	jobStore := memory.NewJobStore()
	doc := seedDocument(t, docStore, strings.Repeat("x", 3500))

	idx := NewIndexer(docStore, jobStore, nil, fastSettings())
	require.NoError(t, idx.Run(ctx, doc.ID))
	require.NoError(t, idx.Rebuild(ctx, doc.ID))

	chunks, err := docStore.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	_, err = idx.Status(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEMAUpdate(t *testing.T) {
	// First sample seeds the average directly.
	assert.InDelta(t, 12.0, emaUpdate(0, 12.0, 0.3), 1e-9)
	// Subsequent samples blend 30/70.
	assert.InDelta(t, 10*0.7+20*0.3, emaUpdate(10, 20, 0.3), 1e-9)
}

func TestETASeconds(t *testing.T) {
	assert.Equal(t, 0, etaSeconds(0, 10))
	assert.Equal(t, 0, etaSeconds(5, 0))
	// 30 chunks at 60/min is 30 seconds.
	assert.Equal(t, 30, etaSeconds(30, 60))
}
