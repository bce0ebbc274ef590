//go:build cgo_sqlite

package sqlite

import (
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const (
	driverName    = "sqlite3"
	driverPackage = "github.com/mattn/go-sqlite3"
)

func dsn(path string, busy time.Duration) string {
	return fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d", path, busy.Milliseconds())
}
