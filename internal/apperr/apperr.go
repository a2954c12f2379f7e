// Package apperr defines the failure taxonomy of the matching engine.
// Services return one of the sentinel errors (usually wrapped with an op
// prefix) and the HTTP layer maps them to status codes with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated means the credential is missing, invalid or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the caller is authenticated but is not the owner
	// required for the operation, or has the wrong role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means a referenced entity is absent. Zero results from a
	// list or search are also reported as ErrNotFound.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the operation is blocked by dependent or duplicate
	// records: deleting a posting with applicants, re-deciding a decided
	// application, signing up with taken identity fields.
	ErrConflict = errors.New("conflict")
	// ErrValidation means a field constraint was violated.
	ErrValidation = errors.New("validation failed")
)

// HTTPStatus maps a service error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
