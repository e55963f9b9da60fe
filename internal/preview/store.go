// Package preview persists the last generated schedule so it can be
// reviewed again before being accepted into the study log.
package preview

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pi2-study/planor/pkg/domain"
)

const previewFileName = "preview.json"

// Store is a single-slot file store for the pending schedule preview.
type Store struct {
	path string
}

// NewStore creates a store rooted at dir (usually the planor config dir).
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, previewFileName)}
}

// Load returns the stored preview, or nil when there is none. A corrupt
// file is treated as no preview, not as an error.
func (s *Store) Load() (*domain.SchedulePreview, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var p domain.SchedulePreview
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil
	}
	if p.Schedule == nil {
		return nil, nil
	}
	return &p, nil
}

// Save writes the preview, creating the directory if needed.
func (s *Store) Save(p *domain.SchedulePreview) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored preview. Clearing an empty store is fine.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
