package storage

import (
	"fmt"

	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

// StateSchemaVersion names the shape of the run-state snapshot. A snapshot
// with any other version is treated as empty, never migrated.
const StateSchemaVersion = 1

type runState struct {
	SchemaVersion int               `json:"schema_version"`
	Items         map[string]string `json:"items"`
}

// StateStore persists the identity→fingerprint snapshot of the last run.
// It is loaded once at run start and rewritten wholesale at run end; it
// reflects only the current snapshot, not history.
type StateStore struct {
	path   string
	logger *utils.Logger
}

// NewStateStore creates a store backed by the given JSON file path.
func NewStateStore(path string, logger *utils.Logger) *StateStore {
	return &StateStore{path: path, logger: logger}
}

// Load returns the previous run's items. A missing, unreadable, malformed
// or version-mismatched file resets to empty — corruption never fails a run.
func (s *StateStore) Load() map[string]string {
	var state runState
	if err := ReadJSON(s.path, &state); err != nil {
		s.logger.Debug("[state] No usable state at %s (%v), starting empty", s.path, err)
		return map[string]string{}
	}
	if state.SchemaVersion != StateSchemaVersion || state.Items == nil {
		s.logger.Warn("[state] Schema mismatch in %s (version %d), starting empty",
			s.path, state.SchemaVersion)
		return map[string]string{}
	}
	return state.Items
}

// Save rewrites the snapshot with this run's items. The write is atomic so
// an interrupted run cannot leave a truncated snapshot behind.
func (s *StateStore) Save(items map[string]string) error {
	state := runState{SchemaVersion: StateSchemaVersion, Items: items}
	if err := WriteJSONAtomic(s.path, state); err != nil {
		return fmt.Errorf("state: save %q: %w", s.path, err)
	}
	return nil
}
