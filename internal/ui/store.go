// Package ui holds the console front-end's state: the record cache, the
// sort state, the shared create/edit form and the controller that ties them
// to the API client. Rendering lives in ui/shell.
package ui

import (
	"slices"

	"github.com/aanand-mishra/records-api/internal/types"
)

// Action is a state transition of a Store.
type Action[T types.Record] interface {
	apply(records []T) []T
}

// Loaded replaces the cache with a fresh fetch.
type Loaded[T types.Record] struct{ Records []T }

// Created appends a record the server just stored.
type Created[T types.Record] struct{ Record T }

// Updated replaces the record with the same id in place.
type Updated[T types.Record] struct{ Record T }

// Deleted drops exactly the record with ID.
type Deleted[T types.Record] struct{ ID string }

func (a Loaded[T]) apply([]T) []T {
	return slices.Clone(a.Records)
}

func (a Created[T]) apply(records []T) []T {
	return append(records, a.Record)
}

func (a Updated[T]) apply(records []T) []T {
	id := a.Record.GetID()
	for i := range records {
		if records[i].GetID() == id {
			records[i] = a.Record
		}
	}
	return records
}

func (a Deleted[T]) apply(records []T) []T {
	return slices.DeleteFunc(records, func(r T) bool { return r.GetID() == a.ID })
}

// Store is the client's authoritative copy of one collection. It only
// changes through Dispatch; everything shown is derived from Records.
type Store[T types.Record] struct {
	records []T
}

func NewStore[T types.Record]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) Dispatch(a Action[T]) {
	s.records = a.apply(s.records)
}

// Records returns a copy in store order.
func (s *Store[T]) Records() []T {
	return slices.Clone(s.records)
}

func (s *Store[T]) Len() int {
	return len(s.records)
}
