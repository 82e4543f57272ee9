// Package schemas validates resume inputs and skill reports against JSON Schema documents.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// ResumeSchema is the repo-relative path of the resume input schema.
	ResumeSchema = "schemas/resume.schema.json"
	// SkillReportSchema is the repo-relative path of the analysis output schema.
	SkillReportSchema = "schemas/skill_report.schema.json"
)

// searchDepth is how many parent directories ResolveSchemaPath climbs.
const searchDepth = 2

// ResolveSchemaPath returns the absolute path of relativePath found in the working
// directory or one of its parents, or "" when there is none. Commands run from the repo
// root while package tests run two levels down.
func ResolveSchemaPath(relativePath string) string {
	dir := ""
	for range searchDepth + 1 {
		abs, err := filepath.Abs(filepath.Join(dir, relativePath))
		if err == nil {
			if info, err := os.Stat(abs); err == nil && !info.IsDir() {
				return abs
			}
		}
		dir = filepath.Join(dir, "..")
	}
	return ""
}

// FieldError is one schema violation. Field is a dotted path, "(root)" for the document.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, "validation failed:")
	for i, fe := range e.Errors {
		lines = append(lines, fmt.Sprintf("  %d. %s: %s", i+1, fe.Field, fe.Message))
	}
	return strings.Join(lines, "\n")
}

// SchemaLoadError means the schema itself, or the document, could not be read or parsed.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled JSON Schema that can validate many documents.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Load compiles the schema file at path.
func Load(path string) (*Schema, error) {
	abs, err := existingFile(path, "schema")
	if err != nil {
		return nil, err
	}
	return compile(abs, gojsonschema.NewReferenceLoader("file://"+abs))
}

func compile(name string, loader gojsonschema.JSONLoader) (*Schema, error) {
	s, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	return &Schema{name: name, schema: s}, nil
}

// ValidateBytes checks an in-memory JSON document.
func (s *Schema) ValidateBytes(data []byte) error {
	return s.check(gojsonschema.NewBytesLoader(data))
}

// ValidateFile checks the JSON document stored at path.
func (s *Schema) ValidateFile(path string) error {
	abs, err := existingFile(path, "JSON")
	if err != nil {
		return err
	}
	return s.check(gojsonschema.NewReferenceLoader("file://" + abs))
}

func (s *Schema) check(doc gojsonschema.JSONLoader) error {
	result, err := s.schema.Validate(doc)
	if err != nil {
		return &SchemaLoadError{Path: s.name, Message: "document could not be read", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		out.Errors = append(out.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return out
}

// ValidateJSON validates the JSON file at jsonPath against the schema file at schemaPath.
func ValidateJSON(schemaPath, jsonPath string) error {
	s, err := Load(schemaPath)
	if err != nil {
		return err
	}
	return s.ValidateFile(jsonPath)
}

// ValidateJSONBytes validates data against the schema file at schemaPath.
func ValidateJSONBytes(schemaPath string, data []byte) error {
	s, err := Load(schemaPath)
	if err != nil {
		return err
	}
	return s.ValidateBytes(data)
}

func existingFile(path, kind string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s path: %w", kind, err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return "", fmt.Errorf("%s file not found: %s", kind, abs)
	}
	return abs, nil
}
