// Package product contains the HTTP handlers for the products collection.
package product

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
	msgNotFound = "Product not found"
	msgDeleted  = "Product deleted"
)

// List handles GET /getProducts.
func List(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all products")

		products, err := store.GetProducts(r.Context())
		if err != nil {
			slog.Error("failed to list products", logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, products)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /createProduct
//
// Request body (JSON):
//
//	{ "name": "Chair", "price": 10, "category": "Furniture" }
//
// A missing category is stored as "Undefined". Answers 201 with the stored
// product, including "_id".
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a product")

		p, ok := decode(w, r)
		if !ok {
			return
		}
		p.ID = ""

		created, err := store.CreateProduct(r.Context(), p)
		if err != nil {
			slog.Error("failed to create product", logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("product created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// Update handles PUT /updateProduct/{id}. Unknown ids answer 404
// { "message": "Product not found" }.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a product", slog.String("id", id))

		p, ok := decode(w, r)
		if !ok {
			return
		}

		updated, err := store.UpdateProductByID(r.Context(), id, p)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}
		if err != nil {
			slog.Error("failed to update product", slog.String("id", id), logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("product updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /products/{id}. See person.Delete for strict.
func Delete(store storage.Storage, strict bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a product", slog.String("id", id))

		deleted, err := store.DeleteProductByID(r.Context(), id)
		if err != nil {
			slog.Error("failed to delete product", slog.String("id", id), logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		if !deleted {
			slog.Warn("delete matched no product", slog.String("id", id))
			if strict {
				response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
				return
			}
		}

		response.WriteJSON(w, http.StatusOK, response.Message(msgDeleted))
	}
}

func decode(w http.ResponseWriter, r *http.Request) (types.Product, bool) {
	var p types.Product
	if err := request.DecodeJSON(w, r, &p); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return p, false
	}

	p.ApplyDefaults()
	if errs := validation.ValidateProduct(p); len(errs) > 0 {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(errs))
		return p, false
	}
	return p, true
}
