package storage

import (
	"fmt"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

// JSONWriter writes the normalized result list wholesale to a JSON file,
// overwriting any previous artifact.
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a writer targeting the given output path.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

// Write persists the entries as an ordered JSON array.
func (w *JSONWriter) Write(entries []*models.NormalizedEntry) error {
	if entries == nil {
		entries = []*models.NormalizedEntry{}
	}
	if err := WriteJSONAtomic(w.path, entries); err != nil {
		return fmt.Errorf("results: write %q: %w", w.path, err)
	}
	return nil
}

// Path returns the configured output path.
func (w *JSONWriter) Path() string {
	return w.path
}
