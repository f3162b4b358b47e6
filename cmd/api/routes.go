// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → requestID → logRequest → enableCORS → rateLimit → router
//
// Endpoints:
//
//	POST   /books/create          – create a new book
//	GET    /books/read            – list all books, newest first
//	GET    /books/read_single?id= – retrieve a single book
//	PUT    /books/update?id=      – replace every field of a book
//	DELETE /books/delete?id=      – delete a book
//	GET    /books/search?q=       – title/author/genre substring search
//	GET    /healthz, /readyz      – liveness and database readiness
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthz", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/readyz", app.readinessHandler)

	router.HandlerFunc(http.MethodPost, "/books/create", app.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/books/read", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/books/read_single", app.showBookHandler)
	router.HandlerFunc(http.MethodPut, "/books/update", app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/books/delete", app.deleteBookHandler)
	router.HandlerFunc(http.MethodGet, "/books/search", app.searchBooksHandler)

	return app.recoverPanic(app.requestID(app.logRequest(app.enableCORS(app.rateLimit(router)))))
}
