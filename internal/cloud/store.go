// Package cloud implements the save-sync store contract: an opaque per-user
// versioned blob store. The simulation core never treats the cloud copy as
// authoritative; loads happen only on explicit player intent.
package cloud

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var ErrNoSave = errors.New("no cloud save")

// Record is one user's stored payload. Version increments monotonically per
// user on every save.
type Record struct {
	SaveData  json.RawMessage `json:"saveData"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is the server-side half of the contract.
type Store interface {
	Save(userID string, payload json.RawMessage) (Record, error)
	Load(userID string) (Record, error)
}

// FileStore keeps every user's record in one JSON file under the data dir.
type FileStore struct {
	mu   sync.Mutex
	path string
	recs map[string]Record
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	s := &FileStore{
		path: filepath.Join(dataDir, "cloud_saves.json"),
		recs: map[string]Record{},
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(b, &s.recs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Save(userID string, payload json.RawMessage) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		SaveData:  payload,
		Version:   s.recs[userID].Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
	s.recs[userID] = rec

	b, err := json.MarshalIndent(s.recs, "", "  ")
	if err != nil {
		return Record{}, err
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *FileStore) Load(userID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[userID]
	if !ok {
		return Record{}, ErrNoSave
	}
	return rec, nil
}
