package ports

import "go.trai.ch/policy/internal/core/domain"

// LockStore defines the interface for reading and writing lock files.
//
//go:generate go run go.uber.org/mock/mockgen -source=lock_store.go -destination=mocks/mock_lock_store.go -package=mocks
type LockStore interface {
	// Load reads the lock file at path.
	Load(path string) (*domain.PolicyLock, error)

	// Save writes the lock file atomically.
	Save(path string, lock *domain.PolicyLock) error
}
