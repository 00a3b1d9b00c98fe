// Package localstore is a small file-backed key-value store - the durable
// local storage a client keeps across restarts (the desktop/test equivalent
// of a mobile device's async storage).
//
// Two logical keys matter to the app: the anonymous-scope saved set and the
// locally-persisted login flag. Values are opaque bytes to this package;
// callers decide the encoding (JSON throughout).
package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys. The _v1 suffix leaves room for a migration if the stored
// shape ever changes.
const (
	KeySaved = "makerburg_saved_v1"
	KeyAuth  = "makerburg_auth_v1"
)

// Store persists values as one file per key under dir.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the backing directory if needed and returns a Store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: creating %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Get returns the value for key. The second return is false when the key
// has never been set - that's a normal first-run condition, not an error.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("localstore: reading %s: %w", key, err)
	}
	return data, true, nil
}

// Set durably writes value under key.
//
// ATOMIC REPLACE:
// The value is written to a temp file and renamed into place. A crash
// mid-write leaves either the old value or the new one - never a torn
// half-written file, which would corrupt the saved set on next load.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("localstore: creating temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localstore: writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: closing temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: replacing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: deleting %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
