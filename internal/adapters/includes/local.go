// Package includes opens the upstream policy locks a policy includes.
package includes

import (
	"context"
	"os"

	"go.trai.ch/policy/internal/adapters/lockstore"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// LocalPolicy is a lock file on the local filesystem.
type LocalPolicy struct {
	name    string
	path    string
	options map[string]string
}

// NewLocalPolicy creates a LocalPolicy. path is resolved; options record the path as written.
func NewLocalPolicy(name, path string, options map[string]string) *LocalPolicy {
	return &LocalPolicy{name: name, path: path, options: options}
}

// Name returns the include name.
func (p *LocalPolicy) Name() string { return p.name }

// SourceOptions returns {"local": <path as written>}.
func (p *LocalPolicy) SourceOptions() map[string]string { return p.options }

// Valid reports whether the include has a name and a path.
func (p *LocalPolicy) Valid() bool {
	return p.name != "" && p.path != ""
}

// EnsureCached checks that the lock file exists.
func (p *LocalPolicy) EnsureCached(_ context.Context) error {
	if _, err := os.Stat(p.path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockReadFailed.Error()), "path", p.path)
	}
	return nil
}

// LockData reads and validates the lock file.
func (p *LocalPolicy) LockData(_ context.Context) (*domain.PolicyLock, error) {
	return lockstore.NewStore().Load(p.path)
}
