// Package driver opens the storage backend named in the configuration.
package driver

import (
	"context"
	"fmt"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/storage/bolt"
	"github.com/aanand-mishra/records-api/internal/storage/mongo"
	"github.com/aanand-mishra/records-api/internal/storage/postgres"
	"github.com/aanand-mishra/records-api/internal/storage/sqlite"
)

func Open(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverBolt:
		return bolt.New(cfg.Path)
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.Path)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.URI)
	case config.DriverMongo:
		return mongo.New(ctx, cfg.URI, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
