// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Storage interface, keeping each record as a JSONB document.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/aanand-mishra/records-api/internal/storage/sqldoc"
)

// Dialect is the PostgreSQL flavour of the document schema.
var Dialect = sqldoc.Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	CreateTable: func(table string) string {
		return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq  BIGSERIAL PRIMARY KEY,
			id   TEXT      NOT NULL UNIQUE,
			body JSONB     NOT NULL
		)`, table)
	},
}

// Postgres is the concrete implementation of storage.Storage.
type Postgres struct {
	*sqldoc.Store
}

// pingAttempts covers short network blips while the database starts.
const pingAttempts = 5

// New connects to the database at dsn, waits for it to answer, and creates
// the collection tables.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open db: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		slog.Info("database connection failed, retrying in 2s", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return Open(ctx, db)
}

// Open wraps an already connected *sql.DB and runs the migration.
func Open(ctx context.Context, db *sql.DB) (*Postgres, error) {
	store := sqldoc.New(db, Dialect)
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("postgres.Open: %w", err)
	}
	return &Postgres{Store: store}, nil
}
