package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes LockedFlow files under a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at the user config directory for appName.
func NewStore(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewStoreAt(filepath.Join(configDir, appName)), nil
}

// NewStoreAt returns a Store rooted at dir.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (store *Store) Dir() string {
	return store.dir
}

// JournalPath returns the location of the session history database.
func (store *Store) JournalPath() string {
	return store.path("history.db")
}

// EnsureDir creates the store directory.
func (store *Store) EnsureDir() error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return nil
}

func (store *Store) path(name string) string {
	return filepath.Join(store.dir, name)
}

// write replaces name through a temporary file and rename.
func (store *Store) write(name string, data []byte) error {
	if err := store.EnsureDir(); err != nil {
		return err
	}
	target := store.path(name)
	temp := target + ".tmp"
	if err := os.WriteFile(temp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(temp, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
