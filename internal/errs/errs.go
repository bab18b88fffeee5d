// Package errs defines the HTTP errors handlers return and the global
// error handler turns into JSON responses of the form `{"error": "..."}`.
package errs

import "net/http"

// MsgProductNotFound is the body of every product 404.
const MsgProductNotFound = "Producto no encontrado"

// HTTPError is an error that knows its HTTP status.
type HTTPError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

// Error makes *HTTPError satisfy the error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// New creates an HTTPError with an explicit status.
func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string) *HTTPError {
	return New(http.StatusNotFound, message)
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError(message string) *HTTPError {
	return New(http.StatusUnauthorized, message)
}

// NewConflictError creates a 409 error.
func NewConflictError(message string) *HTTPError {
	return New(http.StatusConflict, message)
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(message string) *HTTPError {
	return New(http.StatusBadRequest, message)
}

// NewInternalServerError creates a generic 500 error. The message is the
// status text; internal details never reach the client.
func NewInternalServerError() *HTTPError {
	return New(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
