package storage

import "github.com/gondgesagar/Web-scrapper-alert/models"

// ResultWriter is the interface any output-artifact backend must satisfy.
type ResultWriter interface {
	Write(entries []*models.NormalizedEntry) error
}

// RunStateStore loads the previous run snapshot and persists the current one.
type RunStateStore interface {
	Load() map[string]string
	Save(items map[string]string) error
}
