// Package resume loads, validates and normalizes JSON Resume documents.
package resume

import (
	"fmt"
	"strings"
)

// LoadError reports a resume that could not be read or decoded.
type LoadError struct {
	Path  string
	Cause error
	Op    string
}

func (e *LoadError) Error() string {
	msg := "load error: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// FieldError is one failed struct rule.
type FieldError struct {
	Field string
	Rule  string
}

// ValidationError lists the struct rules a resume breaks.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Rule)
	}
	return "resume validation failed: " + strings.Join(parts, "; ")
}
