// Package sqlite opens the result database with the SQLite driver chosen at
// build time: modernc.org/sqlite by default, mattn/go-sqlite3 when built
// with CGO_ENABLED=1 -tags cgo_sqlite.
package sqlite

import (
	"database/sql"
	"time"
)

// BusyTimeout is how long a connection waits on a locked database.
const BusyTimeout = 5 * time.Second

// Driver returns the database/sql driver name and the module providing it.
func Driver() (name, module string) {
	return driverName, driverPackage
}

// Open opens the database file at path with foreign keys enforced and
// BusyTimeout applied, and checks that it is reachable.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn(path, BusyTimeout))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
