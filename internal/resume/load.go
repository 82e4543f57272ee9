package resume

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/jonathan/resume-insights/internal/types"
)

// Load reads and decodes a resume file.
func Load(path string) (*types.Resume, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Op: "failed to read file", Path: path, Cause: err}
	}
	r, err := Parse(content)
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		loadErr.Path = path
	}
	return r, err
}

// Parse decodes resume JSON.
func Parse(content []byte) (*types.Resume, error) {
	r := new(types.Resume)
	if err := json.Unmarshal(content, r); err != nil {
		return nil, &LoadError{Op: "failed to unmarshal JSON", Cause: err}
	}
	return r, nil
}
