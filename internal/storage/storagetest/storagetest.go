// Package storagetest is a conformance suite run against every
// storage.Storage backend.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

// Run exercises s. s must start with empty collections.
func Run(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("People", func(t *testing.T) {
		people, err := s.GetPeople(ctx)
		require.NoError(t, err)
		require.NotNil(t, people, "empty list must not be nil")
		require.Empty(t, people)

		ann, err := s.CreatePerson(ctx, types.Person{
			ID:    "client-chosen",
			Name:  "Ann",
			Age:   30,
			Date:  types.NewDate(2024, 1, 1),
			Email: "a@b.com",
		})
		require.NoError(t, err)
		assert.True(t, storage.ValidID(ann.ID), "id %q is store assigned", ann.ID)
		assert.NotEqual(t, "client-chosen", ann.ID)

		bob, err := s.CreatePerson(ctx, types.Person{Name: "Bob", Age: 41, Nickname: "bobby", Date: types.NewDate(2023, 5, 6)})
		require.NoError(t, err)
		assert.NotEqual(t, ann.ID, bob.ID)

		people, err = s.GetPeople(ctx)
		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, ann, people[0])
		assert.Equal(t, bob, people[1])

		updated, err := s.UpdatePersonByID(ctx, ann.ID, types.Person{Name: "Anna", Age: 31, Date: types.NewDate(2024, 2, 2)})
		require.NoError(t, err)
		assert.Equal(t, ann.ID, updated.ID)
		assert.Equal(t, "Anna", updated.Name)
		assert.Empty(t, updated.Email, "update replaces every field")

		people, err = s.GetPeople(ctx)
		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, updated, people[0])

		_, err = s.UpdatePersonByID(ctx, storage.NewID(), types.Person{Name: "Ghost", Age: 1})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.UpdatePersonByID(ctx, "not-an-id", types.Person{Name: "Ghost", Age: 1})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		deleted, err := s.DeletePersonByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.DeletePersonByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.False(t, deleted, "second delete finds nothing")

		deleted, err = s.DeletePersonByID(ctx, "not-an-id")
		require.NoError(t, err)
		assert.False(t, deleted)

		people, err = s.GetPeople(ctx)
		require.NoError(t, err)
		require.Len(t, people, 1)
		assert.Equal(t, ann.ID, people[0].ID)
	})

	t.Run("Products", func(t *testing.T) {
		products, err := s.GetProducts(ctx)
		require.NoError(t, err)
		require.NotNil(t, products)
		require.Empty(t, products)

		p1, err := s.CreateProduct(ctx, types.Product{Name: "Hammer", Price: 12.5, Category: types.CategoryTool})
		require.NoError(t, err)
		require.True(t, storage.ValidID(p1.ID))

		updated, err := s.UpdateProductByID(ctx, p1.ID, types.Product{Name: "Drill", Price: 50, Category: types.CategoryTool})
		require.NoError(t, err)
		assert.Equal(t, p1.ID, updated.ID)

		products, err = s.GetProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, types.Product{ID: p1.ID, Name: "Drill", Price: 50, Category: types.CategoryTool}, products[0])

		_, err = s.UpdateProductByID(ctx, storage.NewID(), updated)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		deleted, err := s.DeleteProductByID(ctx, p1.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		products, err = s.GetProducts(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}
