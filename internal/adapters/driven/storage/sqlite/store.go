package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/inkwell-labs/lectern/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/inkwell-labs/lectern/internal/core/domain"
	"github.com/inkwell-labs/lectern/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lectern/data/lectern.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lectern", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lectern.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// NoteStore returns a NoteStore interface backed by this store.
func (s *Store) NoteStore() driven.NoteStore {
	return &noteStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// marshalJSON renders v as JSON for a TEXT column. Nil slices become
// the literal "null".
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, uri, content, structured, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			uri = excluded.uri,
			content = excluded.content,
			structured = excluded.structured
	`, doc.ID, doc.Title, doc.URI, doc.Content, doc.Structured, doc.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, uri, content, structured, created_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by creation time.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, uri, content, structured, created_at
		FROM documents ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var createdAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.Title, &doc.URI, &doc.Content,
		&doc.Structured, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	return &doc, nil
}

// SaveChunks stores a batch of chunks in a single transaction so an
// interrupted batch never half-persists.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, chunk_index, content, start_offset, end_offset, section_path, features)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id, chunk_index) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		pathJSON, err := marshalJSON(c.SectionPath)
		if err != nil {
			return fmt.Errorf("marshalling section path: %w", err)
		}
		featuresJSON, err := marshalJSON(c.Features)
		if err != nil {
			return fmt.Errorf("marshalling features: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.Index,
			c.Content, c.Start, c.End, pathJSON, featuresJSON); err != nil {
			return fmt.Errorf("saving chunk %d: %w", c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks for a document ordered by index.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_index, content, start_offset, end_offset, section_path, features
		FROM chunks WHERE document_id = ? ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// ListChunks returns every stored chunk ordered by document and index.
func (s *documentStore) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.chunk_index, c.content, c.start_offset, c.end_offset, c.section_path, c.features
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		ORDER BY d.created_at, c.chunk_index
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

func collectChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.Chunk
		var pathJSON, featuresJSON string
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Index, &c.Content,
			&c.Start, &c.End, &pathJSON, &featuresJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &c.SectionPath); err != nil {
			return nil, fmt.Errorf("unmarshaling section path: %w", err)
		}
		if err := json.Unmarshal([]byte(featuresJSON), &c.Features); err != nil {
			return nil, fmt.Errorf("unmarshaling features: %w", err)
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// HighestChunkIndex returns the largest persisted chunk index for a
// document, or -1 when no chunks exist.
func (s *documentStore) HighestChunkIndex(ctx context.Context, documentID string) (int, error) {
	var highest int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(chunk_index), -1) FROM chunks WHERE document_id = ?", documentID)
	if err := row.Scan(&highest); err != nil {
		return -1, fmt.Errorf("querying highest chunk index: %w", err)
	}
	return highest, nil
}

// DeleteChunks removes all chunks for a document.
func (s *documentStore) DeleteChunks(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// ==================== Job Store ====================

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

const jobColumns = `id, document_id, phase, progress, total_chunks, chunk_count,
	remaining_chunks, throughput, eta_seconds, depth, passes, analysis_done,
	patterns, summary, last_error, notice, resume_at, created_at, updated_at`

// SaveJob creates or updates a job record.
func (s *jobStore) SaveJob(ctx context.Context, job *domain.IndexingJob) error {
	patternsJSON, err := marshalJSON(job.Patterns)
	if err != nil {
		return fmt.Errorf("marshalling patterns: %w", err)
	}

	var resumeAt any
	if !job.ResumeAt.IsZero() {
		resumeAt = job.ResumeAt
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phase = excluded.phase,
			progress = excluded.progress,
			total_chunks = excluded.total_chunks,
			chunk_count = excluded.chunk_count,
			remaining_chunks = excluded.remaining_chunks,
			throughput = excluded.throughput,
			eta_seconds = excluded.eta_seconds,
			depth = excluded.depth,
			passes = excluded.passes,
			analysis_done = excluded.analysis_done,
			patterns = excluded.patterns,
			summary = excluded.summary,
			last_error = excluded.last_error,
			notice = excluded.notice,
			resume_at = excluded.resume_at,
			updated_at = excluded.updated_at
	`, job.ID, job.DocumentID, job.Phase.String(), job.Progress, job.TotalChunks,
		job.ChunkCount, job.RemainingChunks, job.ThroughputPerMinute, job.ETASeconds,
		string(job.Depth), job.Passes, job.AnalysisDone, patternsJSON, job.Summary,
		job.LastError, job.Notice, resumeAt, job.CreatedAt, job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by its own ID.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.IndexingJob, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	return job, nil
}

// GetJobForDocument retrieves the job for a document, or nil when no
// job exists yet.
func (s *jobStore) GetJobForDocument(ctx context.Context, documentID string) (*domain.IndexingJob, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE document_id = ?", documentID)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	return job, nil
}

// ListJobs returns all jobs ordered by creation time.
func (s *jobStore) ListJobs(ctx context.Context) ([]domain.IndexingJob, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.IndexingJob //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// DeleteJob removes a job record.
func (s *jobStore) DeleteJob(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}

func scanJob(row scanner) (*domain.IndexingJob, error) {
	var job domain.IndexingJob
	var phase, depth, patternsJSON string
	var resumeAt, createdAt, updatedAt sql.NullTime
	if err := row.Scan(&job.ID, &job.DocumentID, &phase, &job.Progress,
		&job.TotalChunks, &job.ChunkCount, &job.RemainingChunks,
		&job.ThroughputPerMinute, &job.ETASeconds, &depth, &job.Passes,
		&job.AnalysisDone, &patternsJSON, &job.Summary, &job.LastError,
		&job.Notice, &resumeAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	job.Phase = domain.JobPhase(phase)
	job.Depth = domain.AnalysisDepth(depth)
	if err := json.Unmarshal([]byte(patternsJSON), &job.Patterns); err != nil {
		return nil, fmt.Errorf("unmarshaling patterns: %w", err)
	}
	if resumeAt.Valid {
		job.ResumeAt = resumeAt.Time
	}
	if createdAt.Valid {
		job.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		job.UpdatedAt = updatedAt.Time
	}
	return &job, nil
}

// ==================== Note Store ====================

// noteStore implements driven.NoteStore.
type noteStore struct {
	store *Store
}

var _ driven.NoteStore = (*noteStore)(nil)

// SaveNote stores a note.
func (s *noteStore) SaveNote(ctx context.Context, note *domain.LearningNote) error {
	keywordsJSON, err := marshalJSON(note.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO notes (id, content, keywords, turn_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status
	`, note.ID, note.Content, keywordsJSON, note.TurnID, string(note.Status), note.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving note: %w", err)
	}
	return nil
}

// ListNotes returns notes with the given status, newest first.
func (s *noteStore) ListNotes(ctx context.Context, status domain.NoteStatus) ([]domain.LearningNote, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, content, keywords, turn_id, status, created_at
		FROM notes WHERE status = ? ORDER BY created_at DESC
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.LearningNote //nolint:prealloc // size unknown from query
	for rows.Next() {
		var note domain.LearningNote
		var keywordsJSON, noteStatus string
		var createdAt sql.NullTime
		if err := rows.Scan(&note.ID, &note.Content, &keywordsJSON,
			&note.TurnID, &noteStatus, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &note.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshaling keywords: %w", err)
		}
		note.Status = domain.NoteStatus(noteStatus)
		if createdAt.Valid {
			note.CreatedAt = createdAt.Time
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

// SetNoteStatus updates a note's status.
func (s *noteStore) SetNoteStatus(ctx context.Context, id string, status domain.NoteStatus) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE notes SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("updating note status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking note update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
