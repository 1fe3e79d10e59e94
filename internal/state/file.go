// Package state persists the last usable telemetry snapshot between
// invocations. Each CLI command is one-shot, so "most recent telemetry"
// only survives a process through this file.
package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ballet-labs/vacballet/internal/domain"
)

const stateFileName = "last_seen.json"

// FileStore implements ports.SnapshotStore using a JSON file in dir.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load retrieves the last saved snapshot from disk.
// Returns nil and no error when no snapshot has been saved yet.
func (s *FileStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save persists the snapshot atomically (write to a temp file, then
// rename) to prevent a torn file on crash.
func (s *FileStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path())
}

// Path returns the full path to the state file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, stateFileName)
}
