// Package lockstore reads and writes policy lock files.
package lockstore

import (
	"os"
	"path/filepath"

	"go.trai.ch/policy/internal/adapters/diskcache"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.LockStore on the local filesystem.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads and validates the lock file at path.
func (s *Store) Load(path string) (*domain.PolicyLock, error) {
	//nolint:gosec // path is provided by user
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockReadFailed.Error()), "path", path)
	}

	lock, err := Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lock, nil
}

// Save writes the lock as indented JSON. The file is replaced atomically.
func (s *Store) Save(path string, lock *domain.PolicyLock) error {
	data, err := lock.Encode()
	if err != nil {
		return err
	}

	if err := diskcache.WriteFileAtomic(filepath.Clean(path), data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockWriteFailed.Error()), "path", path)
	}
	return nil
}
