//go:build !cgo_sqlite

package sqlite

import (
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	driverName    = "sqlite"
	driverPackage = "modernc.org/sqlite"
)

// dsn uses modernc's _pragma parameters.
func dsn(path string, busy time.Duration) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", path, busy.Milliseconds())
}
