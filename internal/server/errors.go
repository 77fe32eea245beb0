// Package server provides the HTTP API for the rewrite orchestrator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/tonecycle/internal/db"
	"github.com/jonathan/tonecycle/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a feature whose backing store is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		messageErr    *session.MessageError
		busyErr       *session.BusyError
		unavailable   *ErrUnavailable
		credentialErr *db.CredentialError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &messageErr):
		return http.StatusBadRequest
	case errors.As(err, &busyErr):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusNotImplemented
	case errors.As(err, &credentialErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
