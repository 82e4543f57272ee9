package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/resume-insights/internal/db"
	"github.com/jonathan/resume-insights/internal/fetch"
	"github.com/jonathan/resume-insights/internal/resume"
	"github.com/jonathan/resume-insights/internal/skills"
	"github.com/stretchr/testify/assert"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "url", Message: "must be an http(s) URL"}
	assert.Equal(t, "validation error: url - must be an http(s) URL", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "skill", ID: "Cobol"}
	assert.Equal(t, "skill not found: Cobol", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrStorageDisabled(t *testing.T) {
	err := &ErrStorageDisabled{}
	assert.Equal(t, "analysis storage is not configured", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil",
			err:      nil,
			expected: http.StatusOK,
		},
		{
			name:     "wrapped ErrValidation",
			err:      fmt.Errorf("decode: %w", &ErrValidation{Field: "now"}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "resume.LoadError",
			err:      &resume.LoadError{Op: "failed to unmarshal JSON"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "resume.ValidationError",
			err:      &resume.ValidationError{},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "db.ErrNotFound",
			err:      fmt.Errorf("analysis 42: %w", db.ErrNotFound),
			expected: http.StatusNotFound,
		},
		{
			name:     "no resume in page",
			err:      fmt.Errorf("https://example.com: %w", fetch.ErrNoResumeJSON),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "upstream failure",
			err:      &fetch.Error{URL: "https://example.com", Message: "HTTP 500"},
			expected: http.StatusBadGateway,
		},
		{
			name:     "client went away",
			err:      context.Canceled,
			expected: statusClientClosedRequest,
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			expected: http.StatusGatewayTimeout,
		},
		{
			name:     "skills.ErrNoResume",
			err:      &skills.AnalysisError{Message: "cannot analyze", Cause: skills.ErrNoResume},
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
