// Package bolt provides an embedded bbolt-backed implementation of the
// storage.Storage interface.
//
// Every collection is a bucket named "Type.<collection>". Records are kept
// as JSON documents keyed by their identifier; ObjectID keys sort by
// creation time, so a cursor walk returns insertion order.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

var _ storage.Storage = (*Bolt)(nil)

var (
	ErrBucketNotFound  = errors.New("bucket not found")
	ErrUnmarshalFailed = errors.New("unmarshal failed")
)

// Bolt holds the open database file. A *bbolt.DB is safe for concurrent
// use; writes are serialised by bbolt itself.
type Bolt struct {
	db *bbolt.DB
}

// New opens (creating if needed) the database file at path and makes sure
// a bucket exists for every collection.
func New(path string) (*Bolt, error) {
	slog.Debug("bolt.New - open store", "path", path)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("bolt.New: create dir: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt.New: open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, c := range []string{types.PeopleCollection, types.ProductsCollection} {
			if _, err := tx.CreateBucketIfNotExists(bucketName(c)); err != nil {
				return fmt.Errorf("create bucket %s: %w", c, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt.New: %w", err)
	}

	return &Bolt{db: db}, nil
}

func bucketName(collection string) []byte {
	return []byte("Type." + collection)
}

func (b *Bolt) GetPeople(ctx context.Context) ([]types.Person, error) {
	people, err := list[types.Person](ctx, b.db, types.PeopleCollection)
	if err != nil {
		return nil, fmt.Errorf("GetPeople: %w", err)
	}
	return people, nil
}

func (b *Bolt) CreatePerson(ctx context.Context, p types.Person) (types.Person, error) {
	p.ID = storage.NewID()
	if err := put(ctx, b.db, types.PeopleCollection, p.ID, p, false); err != nil {
		return types.Person{}, fmt.Errorf("CreatePerson: %w", err)
	}
	return p, nil
}

func (b *Bolt) UpdatePersonByID(ctx context.Context, id string, p types.Person) (types.Person, error) {
	p.ID = id
	if err := put(ctx, b.db, types.PeopleCollection, id, p, true); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: %w", err)
	}
	return p, nil
}

func (b *Bolt) DeletePersonByID(ctx context.Context, id string) (bool, error) {
	deleted, err := remove(ctx, b.db, types.PeopleCollection, id)
	if err != nil {
		return false, fmt.Errorf("DeletePersonByID: %w", err)
	}
	return deleted, nil
}

func (b *Bolt) GetProducts(ctx context.Context) ([]types.Product, error) {
	products, err := list[types.Product](ctx, b.db, types.ProductsCollection)
	if err != nil {
		return nil, fmt.Errorf("GetProducts: %w", err)
	}
	return products, nil
}

func (b *Bolt) CreateProduct(ctx context.Context, p types.Product) (types.Product, error) {
	p.ID = storage.NewID()
	if err := put(ctx, b.db, types.ProductsCollection, p.ID, p, false); err != nil {
		return types.Product{}, fmt.Errorf("CreateProduct: %w", err)
	}
	return p, nil
}

func (b *Bolt) UpdateProductByID(ctx context.Context, id string, p types.Product) (types.Product, error) {
	p.ID = id
	if err := put(ctx, b.db, types.ProductsCollection, id, p, true); err != nil {
		return types.Product{}, fmt.Errorf("UpdateProductByID: %w", err)
	}
	return p, nil
}

func (b *Bolt) DeleteProductByID(ctx context.Context, id string) (bool, error) {
	deleted, err := remove(ctx, b.db, types.ProductsCollection, id)
	if err != nil {
		return false, fmt.Errorf("DeleteProductByID: %w", err)
	}
	return deleted, nil
}

func (b *Bolt) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketName(types.PeopleCollection)) == nil {
			return ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the database file.
func (b *Bolt) Close() error {
	slog.Debug("bolt.Close - close store")
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func list[T any](ctx context.Context, db *bbolt.DB, collection string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]T, 0)
	err := db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName(collection))
		if bucket == nil {
			return nil
		}
		// v is only valid for the lifetime of the transaction; Unmarshal copies.
		return bucket.ForEach(func(k, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("%w: key %s: %w", ErrUnmarshalFailed, k, err)
			}
			out = append(out, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// put stores record under id. With mustExist set the key has to be present
// already, which turns the write into an update.
func put(ctx context.Context, db *bbolt.DB, collection, id string, record any, mustExist bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mustExist && !storage.ValidID(id) {
		return storage.ErrNotFound
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName(collection))
		if err != nil {
			return fmt.Errorf("bucket %s: %w", collection, err)
		}
		key := []byte(id)
		if mustExist && bucket.Get(key) == nil {
			return storage.ErrNotFound
		}
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("put: %w", err)
		}
		slog.Debug("bolt.put - stored document", "collection", collection, "id", id)
		return nil
	})
}

func remove(ctx context.Context, db *bbolt.DB, collection, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var existed bool
	err := db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName(collection))
		if bucket == nil {
			return nil
		}
		key := []byte(id)
		existed = bucket.Get(key) != nil
		if !existed {
			slog.Debug("bolt.remove - nothing to delete", "collection", collection, "id", id)
			return nil
		}
		return bucket.Delete(key)
	})
	return existed, err
}
