// Package store records hierarchization runs and their documents in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/sqlite"
)

// RunStatus is the state of a run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one invocation over a set of documents.
type Run struct {
	ID         string            `json:"id"`
	Status     RunStatus         `json:"status"`
	StartedAt  string            `json:"started_at"`
	FinishedAt string            `json:"finished_at,omitempty"`
	Properties map[string]string `json:"properties"`
}

// Document is the stored outcome for one document of a run.
type Document struct {
	RunID             string `json:"run_id"`
	Name              string `json:"name"`
	SHA256            string `json:"sha256,omitempty"`
	BLAKE3            string `json:"blake3,omitempty"`
	Structures        int    `json:"structures"`
	Skipped           int    `json:"skipped"`
	DeletedSpans      int    `json:"deleted_spans"`
	RemovedStructures int    `json:"removed_structures"`
	PointerEdges      int    `json:"pointer_edges"`
	Output            string `json:"output,omitempty"`
	Error             string `json:"error,omitempty"`
}

// Store provides persistent run storage backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the store database at path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	// One connection keeps in-memory databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "migrate store %s", path)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// StartRun creates a running run with the given properties.
func (s *Store) StartRun(ctx context.Context, properties map[string]string) (*Run, error) {
	if properties == nil {
		properties = map[string]string{}
	}
	data, err := json.Marshal(properties)
	if err != nil {
		return nil, err
	}
	run := &Run{
		ID:         uuid.New().String(),
		Status:     RunStatusRunning,
		StartedAt:  s.timestamp(),
		Properties: properties,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at, properties) VALUES (?, ?, ?, ?)`,
		run.ID, string(run.Status), run.StartedAt, string(data))
	if err != nil {
		return nil, errors.Wrap(err, "insert run")
	}
	return run, nil
}

// FinishRun marks a run completed, or failed when failed is true.
func (s *Store) FinishRun(ctx context.Context, runID string, failed bool) error {
	status := RunStatusCompleted
	if failed {
		status = RunStatusFailed
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		string(status), s.timestamp(), runID)
	if err != nil {
		return errors.Wrap(err, "update run")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFound("run", runID)
	}
	return nil
}

// Run returns the run with the given ID.
func (s *Store) Run(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, started_at, finished_at, properties FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("run", runID)
	}
	return run, err
}

// Runs returns all runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, started_at, finished_at, properties FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()
	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var status, props string
	if err := sc.Scan(&run.ID, &status, &run.StartedAt, &run.FinishedAt, &props); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	if err := json.Unmarshal([]byte(props), &run.Properties); err != nil {
		return nil, &errors.ParseError{Format: "run properties", Message: err.Error(), Err: err}
	}
	return &run, nil
}

// RecordDocument stores or replaces the outcome of one document.
func (s *Store) RecordDocument(ctx context.Context, d Document) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO documents
		(run_id, name, sha256, blake3, structures, skipped, deleted_spans, removed_structures, pointer_edges, output, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.RunID, d.Name, d.SHA256, d.BLAKE3, d.Structures, d.Skipped, d.DeletedSpans,
		d.RemovedStructures, d.PointerEdges, d.Output, d.Error, s.timestamp())
	if err != nil {
		return errors.Wrapf(err, "record document %s", d.Name)
	}
	return nil
}

const documentColumns = `run_id, name, sha256, blake3, structures, skipped, deleted_spans, removed_structures, pointer_edges, output, error`

// Documents returns the documents of a run ordered by name.
func (s *Store) Documents(ctx context.Context, runID string) ([]Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE run_id = ? ORDER BY name`, runID)
}

// FindByFingerprint returns every stored document whose BLAKE3 or SHA-256
// fingerprint equals digest.
func (s *Store) FindByFingerprint(ctx context.Context, digest string) ([]Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE blake3 = ? OR sha256 = ? ORDER BY recorded_at, name`, digest, digest)
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query documents")
	}
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		var d Document
		err := rows.Scan(&d.RunID, &d.Name, &d.SHA256, &d.BLAKE3, &d.Structures, &d.Skipped,
			&d.DeletedSpans, &d.RemovedStructures, &d.PointerEdges, &d.Output, &d.Error)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
