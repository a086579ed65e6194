package includes

import (
	"context"

	"go.trai.ch/policy/internal/core/domain"
)

// LoadedPolicy wraps a lock that is already in memory.
type LoadedPolicy struct {
	name    string
	options map[string]string
	lock    *domain.PolicyLock
}

// NewLoadedPolicy creates a LoadedPolicy for lock.
func NewLoadedPolicy(name string, options map[string]string, lock *domain.PolicyLock) *LoadedPolicy {
	return &LoadedPolicy{name: name, options: options, lock: lock}
}

// Name returns the include name.
func (p *LoadedPolicy) Name() string { return p.name }

// SourceOptions returns the options given at construction.
func (p *LoadedPolicy) SourceOptions() map[string]string { return p.options }

// Valid reports whether a lock is present.
func (p *LoadedPolicy) Valid() bool {
	return p.name != "" && p.lock != nil
}

// EnsureCached does nothing.
func (p *LoadedPolicy) EnsureCached(_ context.Context) error {
	return nil
}

// LockData returns the wrapped lock.
func (p *LoadedPolicy) LockData(_ context.Context) (*domain.PolicyLock, error) {
	return p.lock, nil
}
