package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProgressStore records per-stage outcomes in a flat JSON file keyed by the
// recipe-name slug. A resumed run replays the stored completion text of
// successful stages through the parser instead of calling the generator
// again. One writer per slug is assumed; concurrent runs for the same
// recipe name are not guarded.

// StageStatusSuccess and StageStatusError are the only states a stage entry
// can carry.
const (
	StageStatusSuccess = "success"
	StageStatusError   = "error"
)

// StageRecord is one stage's outcome. For successful generation stages the
// message holds the raw completion text so resume can skip the call.
type StageRecord struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ProgressStore reads and writes <slug>_progress.json files under Dir.
type ProgressStore struct {
	Dir string
}

// NewProgressStore builds a store rooted at dir, creating it if needed.
func NewProgressStore(dir string) (*ProgressStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create progress directory: %w", err)
	}
	return &ProgressStore{Dir: dir}, nil
}

func (p *ProgressStore) path(recipeName string) string {
	return filepath.Join(p.Dir, Slug(recipeName)+"_progress.json")
}

// Load returns the recorded progress for a recipe name; a missing file is
// an empty map, not an error.
func (p *ProgressStore) Load(recipeName string) (map[string]StageRecord, error) {
	data, err := os.ReadFile(p.path(recipeName))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]StageRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	var state map[string]StageRecord
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse progress file: %w", err)
	}
	return state, nil
}

// Save writes the whole progress map back, replacing the file.
func (p *ProgressStore) Save(recipeName string, state map[string]StageRecord) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := os.WriteFile(p.path(recipeName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	return nil
}

// Clear removes the progress file after a fully successful run.
func (p *ProgressStore) Clear(recipeName string) error {
	err := os.Remove(p.path(recipeName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove progress file: %w", err)
	}
	return nil
}
