// Package person contains the HTTP handlers for the people collection.
//
// Handlers use the closure / factory pattern: each exported function takes
// its dependencies once at startup and returns the http.HandlerFunc that
// serves every request.
//
//	router.HandleFunc("POST /createUser", person.New(store))
package person

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/records-api/internal/logger"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/request"
	"github.com/aanand-mishra/records-api/internal/utils/response"
	"github.com/aanand-mishra/records-api/internal/validation"
)

const (
	msgNotFound = "User not found"
	msgDeleted  = "User deleted"
)

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /getUsers
// Returns every person in store order; an empty collection is [].
// ─────────────────────────────────────────────────────────────────────────────
func List(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all people")

		people, err := store.GetPeople(r.Context())
		if err != nil {
			slog.Error("failed to list people", logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, people)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /createUser
//
// Request body (JSON):
//
//	{ "name": "Ann", "age": 30, "email": "a@b.com", "date": "2024-01-01" }
//
// Success response (201 Created): the stored person, including "_id".
//
// Error responses:
//
//	400 Bad Request: empty body, malformed JSON, or failed validation
//	500 Internal:    database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a person")

		p, ok := decode(w, r)
		if !ok {
			return
		}

		// The store assigns the identifier; anything the client sent is dropped.
		p.ID = ""

		created, err := store.CreatePerson(r.Context(), p)
		if err != nil {
			slog.Error("failed to create person", logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("person created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /updateUser/{id}
// Every field of the person is replaced by the body.
//
// Error responses:
//
//	400 Bad Request: empty body, malformed JSON, or failed validation
//	404 Not Found:   { "message": "User not found" }
//	500 Internal:    database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a person", slog.String("id", id))

		p, ok := decode(w, r)
		if !ok {
			return
		}

		updated, err := store.UpdatePersonByID(r.Context(), id, p)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}
		if err != nil {
			slog.Error("failed to update person", slog.String("id", id), logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("person updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /users/{id}
//
// Answers { "message": "User deleted" }. An id that matches nothing gets the
// same answer unless strict is set, in which case it is a 404.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage, strict bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a person", slog.String("id", id))

		deleted, err := store.DeletePersonByID(r.Context(), id)
		if err != nil {
			slog.Error("failed to delete person", slog.String("id", id), logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		if !deleted {
			slog.Warn("delete matched no person", slog.String("id", id))
			if strict {
				response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
				return
			}
		}

		response.WriteJSON(w, http.StatusOK, response.Message(msgDeleted))
	}
}

// decode reads and validates the body, writing the 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request) (types.Person, bool) {
	var p types.Person
	if err := request.DecodeJSON(w, r, &p); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return p, false
	}

	if errs := validation.ValidatePerson(p); len(errs) > 0 {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(errs))
		return p, false
	}
	return p, true
}
