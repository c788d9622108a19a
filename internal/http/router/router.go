// Package router wires the handlers to their routes.
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/http/handlers/health"
	"github.com/aanand-mishra/records-api/internal/http/handlers/person"
	"github.com/aanand-mishra/records-api/internal/http/handlers/product"
	"github.com/aanand-mishra/records-api/internal/http/middleware"
	"github.com/aanand-mishra/records-api/internal/storage"
)

// New returns the full API handler.
//
// Route table:
//
//	GET    /getUsers             list people
//	POST   /createUser           create a person
//	PUT    /updateUser/{id}      replace a person
//	DELETE /users/{id}           delete a person
//	GET    /getProducts          list products
//	POST   /createProduct        create a product
//	PUT    /updateProduct/{id}   replace a product
//	DELETE /products/{id}        delete a product
//	GET    /healthz              backend ping
func New(store storage.Storage, cfg config.HTTPServer, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /getUsers", person.List(store))
	mux.HandleFunc("POST /createUser", person.New(store))
	mux.HandleFunc("PUT /updateUser/{id}", person.Update(store))
	mux.HandleFunc("DELETE /users/{id}", person.Delete(store, cfg.StrictDelete))

	mux.HandleFunc("GET /getProducts", product.List(store))
	mux.HandleFunc("POST /createProduct", product.New(store))
	mux.HandleFunc("PUT /updateProduct/{id}", product.Update(store))
	mux.HandleFunc("DELETE /products/{id}", product.Delete(store, cfg.StrictDelete))

	mux.HandleFunc("GET /healthz", health.New(store))

	return middleware.Chain(mux, middleware.Stack(log, cfg.CORSOrigins)...)
}
