package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-insights/internal/db"
	"github.com/jonathan/resume-insights/internal/fetch"
	"github.com/jonathan/resume-insights/internal/resume"
	"github.com/jonathan/resume-insights/internal/skills"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a resource was not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStorageDisabled indicates an endpoint needs a database that is not configured
type ErrStorageDisabled struct{}

func (e *ErrStorageDisabled) Error() string {
	return "analysis storage is not configured"
}

// statusClientClosedRequest is the de facto status for requests the client abandoned.
const statusClientClosedRequest = 499

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		storageErr    *ErrStorageDisabled
		resumeInvalid *resume.ValidationError
		resumeLoadErr *resume.LoadError
		fetchErr      *fetch.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &resumeLoadErr):
		return http.StatusBadRequest
	case errors.As(err, &resumeInvalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFoundErr), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &storageErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, fetch.ErrNoResumeJSON):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, skills.ErrNoResume):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
