// ABOUTME: Persisted client state (filters, basket, sidebar flag, host override)
// ABOUTME: JSON snapshot in the config directory, rewritten after every mutation

package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openrental/rentctl/internal/rental"
)

// Snapshot is everything the client remembers across runs besides
// credentials, which live in their own file.
type Snapshot struct {
	Filters     rental.Filters `json:"filters"`
	Basket      rental.Basket  `json:"basket"`
	SidebarOpen bool           `json:"sidebar_open"`
	APIHost     string         `json:"api_host,omitempty"`
}

// Store reads and writes the snapshot file.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given config directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) file() string {
	return filepath.Join(s.dir, "state.json")
}

// Load reads the snapshot from disk. A missing or corrupt file yields the
// zero snapshot; stale local state is never a fatal condition.
func (s *Store) Load() Snapshot {
	var snap Snapshot
	data, err := os.ReadFile(s.file())
	if err != nil {
		return Snapshot{}
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}
	}
	return snap
}

// Save writes the snapshot, creating the directory on first use.
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.file(), data, 0o644)
}
