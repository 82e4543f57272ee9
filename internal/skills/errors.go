// Package skills derives a de-duplicated skill hierarchy from a resume and aggregates
// non-overlapping experience durations over it.
package skills

import (
	"errors"
	"fmt"
)

// ErrNoResume is returned when an analysis is requested without a resume.
var ErrNoResume = errors.New("no resume to analyze")

// AnalysisError represents a failure to run a skill analysis.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis error: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
