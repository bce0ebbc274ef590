package store

import (
	"database/sql"
	"fmt"
)

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			status      TEXT NOT NULL CHECK(status IN ('running','completed','failed')),
			started_at  TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT '',
			properties  TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			run_id             TEXT NOT NULL REFERENCES runs(id),
			name               TEXT NOT NULL,
			sha256             TEXT NOT NULL DEFAULT '',
			blake3             TEXT NOT NULL DEFAULT '',
			structures         INTEGER NOT NULL DEFAULT 0,
			skipped            INTEGER NOT NULL DEFAULT 0,
			deleted_spans      INTEGER NOT NULL DEFAULT 0,
			removed_structures INTEGER NOT NULL DEFAULT 0,
			pointer_edges      INTEGER NOT NULL DEFAULT 0,
			output             TEXT NOT NULL DEFAULT '',
			error              TEXT NOT NULL DEFAULT '',
			recorded_at        TEXT NOT NULL,
			PRIMARY KEY (run_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_blake3 ON documents(blake3)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_sha256 ON documents(sha256)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
