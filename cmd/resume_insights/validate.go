package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-insights/internal/resume"
	"github.com/jonathan/resume-insights/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate resume JSON files",
	Long: `Validate checks each resume against the resume JSON Schema and the struct rules the
analysis relies on, printing every failing field. Inverted date ranges are reported as
warnings.`,
	RunE: runValidate,
}

var (
	validateInputs []string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringArrayVarP(&validateInputs, "in", "i", nil, "Resume JSON file (repeatable, required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "JSON Schema to validate against (default schemas/resume.schema.json)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	schemaPath := validateSchema
	if schemaPath == "" {
		schemaPath = schemas.ResolveSchemaPath(schemas.ResumeSchema)
	}
	if schemaPath == "" {
		return fmt.Errorf("could not locate %s; pass --schema", schemas.ResumeSchema)
	}

	failed := 0
	for _, path := range validateInputs {
		if !validateFile(schemaPath, path) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d resumes failed validation", failed, len(validateInputs))
	}
	return nil
}

// validateFile prints the result for one resume and reports whether it passed.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func validateFile(schemaPath, path string) bool {
	ok := true

	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		ok = false
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(os.Stdout, "✗ %s: schema validation failed\n", path)
			for _, fe := range validationErr.Errors {
				fmt.Fprintf(os.Stdout, "    %s: %s\n", fe.Field, fe.Message)
			}
		} else {
			fmt.Fprintf(os.Stdout, "✗ %s: %v\n", path, err)
			return false
		}
	}

	r, err := resume.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stdout, "✗ %s: %v\n", path, err)
		return false
	}

	if err := resume.Validate(r); err != nil {
		ok = false
		var validationErr *resume.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(os.Stdout, "✗ %s: struct validation failed\n", path)
			for _, fe := range validationErr.Fields {
				fmt.Fprintf(os.Stdout, "    %s: %s\n", fe.Field, fe.Rule)
			}
		} else {
			fmt.Fprintf(os.Stdout, "✗ %s: %v\n", path, err)
		}
	}

	for _, w := range resume.Warnings(r) {
		fmt.Fprintf(os.Stdout, "⚠ %s: %s\n", path, w)
	}

	if ok {
		fmt.Fprintf(os.Stdout, "✓ %s: Validation passed\n", path)
	}
	return ok
}
