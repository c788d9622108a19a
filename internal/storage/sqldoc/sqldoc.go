// Package sqldoc stores records as JSON documents in a relational database
// through database/sql. The sqlite and postgres backends are thin wrappers
// that open the connection and pick a Dialect.
//
// Each collection is a table:
//
//	seq:  auto-incremented, gives the store-native (insertion) order
//	id:   the record identifier, unique
//	body: the JSON document
package sqldoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

var _ storage.Storage = (*Store)(nil)

// Dialect captures what differs between SQL engines.
type Dialect struct {
	Name string

	// Placeholder returns the bind parameter for the n-th (1-based) argument.
	Placeholder func(n int) string

	// CreateTable returns the DDL for one collection table.
	CreateTable func(table string) string
}

// Store is the database/sql implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type Store struct {
	Db      *sql.DB
	dialect Dialect
}

// New wraps an open database. Call Migrate before first use.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{Db: db, dialect: dialect}
}

// Migrate creates the collection tables if they do not exist yet. It is
// idempotent and safe to run on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	for _, table := range []string{types.PeopleCollection, types.ProductsCollection} {
		if _, err := s.Db.ExecContext(ctx, s.dialect.CreateTable(table)); err != nil {
			return fmt.Errorf("%s.Migrate: create table %s: %w", s.dialect.Name, table, err)
		}
	}
	return nil
}

func (s *Store) GetPeople(ctx context.Context) ([]types.Person, error) {
	people, err := list[types.Person](ctx, s, types.PeopleCollection)
	if err != nil {
		return nil, fmt.Errorf("GetPeople: %w", err)
	}
	return people, nil
}

func (s *Store) CreatePerson(ctx context.Context, p types.Person) (types.Person, error) {
	p.ID = storage.NewID()
	if err := s.insert(ctx, types.PeopleCollection, p.ID, p); err != nil {
		return types.Person{}, fmt.Errorf("CreatePerson: %w", err)
	}
	return p, nil
}

func (s *Store) UpdatePersonByID(ctx context.Context, id string, p types.Person) (types.Person, error) {
	p.ID = id
	if err := s.replace(ctx, types.PeopleCollection, id, p); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: %w", err)
	}
	return p, nil
}

func (s *Store) DeletePersonByID(ctx context.Context, id string) (bool, error) {
	deleted, err := s.remove(ctx, types.PeopleCollection, id)
	if err != nil {
		return false, fmt.Errorf("DeletePersonByID: %w", err)
	}
	return deleted, nil
}

func (s *Store) GetProducts(ctx context.Context) ([]types.Product, error) {
	products, err := list[types.Product](ctx, s, types.ProductsCollection)
	if err != nil {
		return nil, fmt.Errorf("GetProducts: %w", err)
	}
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, p types.Product) (types.Product, error) {
	p.ID = storage.NewID()
	if err := s.insert(ctx, types.ProductsCollection, p.ID, p); err != nil {
		return types.Product{}, fmt.Errorf("CreateProduct: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProductByID(ctx context.Context, id string, p types.Product) (types.Product, error) {
	p.ID = id
	if err := s.replace(ctx, types.ProductsCollection, id, p); err != nil {
		return types.Product{}, fmt.Errorf("UpdateProductByID: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProductByID(ctx context.Context, id string) (bool, error) {
	deleted, err := s.remove(ctx, types.ProductsCollection, id)
	if err != nil {
		return false, fmt.Errorf("DeleteProductByID: %w", err)
	}
	return deleted, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.Db.Close()
}

func (s *Store) ph(n int) string {
	return s.dialect.Placeholder(n)
}

func list[T any](ctx context.Context, s *Store, table string) ([]T, error) {
	// Explicit column and ordering: the caller relies on insertion order.
	stmt, err := s.Db.PrepareContext(ctx, fmt.Sprintf("SELECT body FROM %s ORDER BY seq", table))
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var item T
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func (s *Store) insert(ctx context.Context, table, id string, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	stmt, err := s.Db.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, body) VALUES (%s, %s)", table, s.ph(1), s.ph(2)))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id, string(body)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	slog.Debug("sqldoc.insert - stored document", "driver", s.dialect.Name, "table", table, "id", id)
	return nil
}

func (s *Store) replace(ctx context.Context, table, id string, record any) error {
	if !storage.ValidID(id) {
		return storage.ErrNotFound
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	stmt, err := s.Db.PrepareContext(ctx,
		fmt.Sprintf("UPDATE %s SET body = %s WHERE id = %s", table, s.ph(1), s.ph(2)))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, string(body), id)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) remove(ctx context.Context, table, id string) (bool, error) {
	if !storage.ValidID(id) {
		return false, nil
	}

	stmt, err := s.Db.PrepareContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = %s", table, s.ph(1)))
	if err != nil {
		return false, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return false, fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
