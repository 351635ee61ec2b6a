package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepo persists the slot system as a single JSON file under the data dir.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{path: filepath.Join(dataDir, "slots.json")}, nil
}

func (r *FileRepo) Load() (System, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return System{}, false, nil
		}
		return System{}, false, err
	}

	var sys System
	if err := json.Unmarshal(b, &sys); err != nil {
		return System{}, false, fmt.Errorf("parse %s: %w", r.path, err)
	}
	if sys.Slots == nil {
		sys.Slots = map[int]*Slot{}
	}
	return sys, true, nil
}

func (r *FileRepo) Save(sys System) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := json.MarshalIndent(sys, "", "  ")
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never leaves a torn save.
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
