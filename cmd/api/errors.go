// cmd/api/errors.go
package main

import (
	"log/slog"
	"net/http"
)

// logError logs an internal error at ERROR level with the request id, method
// and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_id", requestIDFrom(r.Context())),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// errorResponse sends a {"success": false, "message": ...} envelope with the
// given status code. It is the building block for the helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeError(w, r, status, envelope{"success": false, "message": message})
}

func (app *applicationDependencies) writeError(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	err := app.writeJSON(w, status, body, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs an unexpected error and sends a generic 500.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// storageErrorResponse logs a failed database call and sends a 503 carrying
// only the operation-level message; the cause never reaches the client.
func (app *applicationDependencies) storageErrorResponse(w http.ResponseWriter, r *http.Request, err error, message string) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusServiceUnavailable, message)
}

// notFoundResponse sends a 404 for unknown routes.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

// bookNotFoundResponse sends a 404 for an id that matches no book.
func (app *applicationDependencies) bookNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "Book not found")
}

func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// badRequestResponse sends a 400 carrying err's message.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse sends a 400 with a summary message and the
// field-level errors collected by a Validator.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, message string, errors map[string]string) {
	app.writeError(w, r, http.StatusBadRequest, envelope{"success": false, "message": message, "errors": errors})
}

func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}
