// cmd/api/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models.
package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aoideee/bookcatalog/internal/data"
	"github.com/aoideee/bookcatalog/internal/validator"
)

// createBookHandler handles POST /books/create.
// Every field except coverUrl is required; a missing one is a 400 and nothing
// is written. Any storage failure is reported as a 503.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.BookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateBookInput(v, input); !v.Valid() {
		app.failedValidationResponse(w, r, "Unable to create book. Data is incomplete.", v.Errors)
		return
	}

	book := input.Book()

	err = app.models.Books.Insert(r.Context(), book)
	if err != nil {
		app.storageErrorResponse(w, r, err, "Unable to create book")
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"success": true, "message": "Book was created.", "data": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /books/read.
// An empty table is a successful, empty list.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.storageErrorResponse(w, r, err, "Unable to read books")
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "data": books}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /books/read_single?id=.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.bookNotFoundResponse(w, r)
		default:
			app.storageErrorResponse(w, r, err, "Unable to read book")
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "data": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PUT /books/update?id=.
// The body replaces every field; absent fields are written as empty values.
// Responds 404 when no book has the id.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input data.BookInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book := input.Book()
	book.ID = id

	err = app.models.Books.Update(r.Context(), book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.bookNotFoundResponse(w, r)
		default:
			app.storageErrorResponse(w, r, err, "Unable to update book")
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Book was updated.", "data": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /books/delete?id=.
// Responds 404 when no book has the id.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.models.Books.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.bookNotFoundResponse(w, r)
		default:
			app.storageErrorResponse(w, r, err, "Unable to delete book")
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Book was deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// searchBooksHandler handles GET /books/search?q=.
// A blank query lists every book.
func (app *applicationDependencies) searchBooksHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(app.readString(r.URL.Query(), "q", ""))

	var (
		books []*data.Book
		err   error
	)
	if q == "" {
		books, err = app.models.Books.GetAll(r.Context())
	} else {
		books, err = app.models.Books.Search(r.Context(), q)
	}
	if err != nil {
		app.storageErrorResponse(w, r, err, "Unable to search books")
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "data": books}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler handles GET /healthz.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	body := envelope{
		"success":     true,
		"status":      "available",
		"environment": app.config.environment,
		"version":     appVersion,
	}
	err := app.writeJSON(w, http.StatusOK, body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readinessHandler handles GET /readyz. It answers 503 when the database
// does not respond to a ping within 500ms.
func (app *applicationDependencies) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()

	if err := app.models.Ping(ctx); err != nil {
		app.storageErrorResponse(w, r, err, "database not ready")
		return
	}

	err := app.writeJSON(w, http.StatusOK, envelope{"success": true, "status": "ready"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
