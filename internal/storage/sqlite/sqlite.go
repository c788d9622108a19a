// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface. SQLite keeps everything in one file on disk,
// with no separate server process.
//
// The blank import registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/records-api/internal/storage/sqldoc"
)

// Dialect is the SQLite flavour of the document schema.
var Dialect = sqldoc.Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	CreateTable: func(table string) string {
		return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq  INTEGER PRIMARY KEY AUTOINCREMENT,
			id   TEXT    NOT NULL UNIQUE,
			body TEXT    NOT NULL
		)`, table)
	},
}

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	*sqldoc.Store
}

// New opens the SQLite database at path, creates the collection tables if
// they do not already exist, and returns a ready-to-use *SQLite.
func New(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// sql.Open does not connect yet; the first query does.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	store := sqldoc.New(db, Dialect)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	return &SQLite{Store: store}, nil
}
