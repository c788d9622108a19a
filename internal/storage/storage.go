// Package storage defines the Storage interface, the contract every
// document backend (mongo, bolt, sqlite, postgres) satisfies.
//
// Handlers depend only on this interface, so switching databases is a
// configuration change and tests can run against an embedded backend.
package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aanand-mishra/records-api/internal/types"
)

// ErrNotFound is returned when an identifier matches no record.
var ErrNotFound = errors.New("record not found")

// Storage is the database contract. Each entity type lives in its own
// collection; identifiers are assigned here and never by the caller.
type Storage interface {
	// GetPeople returns every person in store-native order. An empty
	// collection yields an empty (non-nil) slice.
	GetPeople(ctx context.Context) ([]types.Person, error)

	// CreatePerson persists p under a freshly assigned identifier and
	// returns the stored record. Any ID on p is ignored.
	CreatePerson(ctx context.Context, p types.Person) (types.Person, error)

	// UpdatePersonByID replaces every field of the addressed person and
	// returns the stored result, or ErrNotFound.
	UpdatePersonByID(ctx context.Context, id string, p types.Person) (types.Person, error)

	// DeletePersonByID removes the addressed person. It reports whether a
	// record was actually removed; an unknown id is not an error.
	DeletePersonByID(ctx context.Context, id string) (bool, error)

	GetProducts(ctx context.Context) ([]types.Product, error)
	CreateProduct(ctx context.Context, p types.Product) (types.Product, error)
	UpdateProductByID(ctx context.Context, id string, p types.Product) (types.Product, error)
	DeleteProductByID(ctx context.Context, id string) (bool, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// NewID allocates a store identifier. Every backend uses the ObjectID hex
// form so identifiers look the same whichever database is configured.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the shape NewID produces. Malformed ids
// can never match a record.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
