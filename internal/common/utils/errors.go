// internal/common/utils/errors.go
// Error kinds shared by every feature package. Feature errors wrap one of
// these so handlers can map them to a status code with errors.Is.

package utils

import (
	"errors"
	"log"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrPrecondition    = errors.New("precondition failed")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// KindError attaches a kind to a user facing message
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string { return e.Message }

func (e *KindError) Unwrap() error { return e.Kind }

// NewError builds an error of the given kind carrying msg
func NewError(kind error, msg string) error {
	return &KindError{Kind: kind, Message: msg}
}

// StatusFor maps an error to the HTTP status of its kind
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrPrecondition):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithServiceError writes err using its kind. Unknown errors are logged
// and answered with fallback so internals never leak to the client.
func RespondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s: %v", fallback, err)
		RespondWithError(w, status, fallback)
		return
	}
	RespondWithError(w, status, err.Error())
}
