package ports

import (
	"context"

	"go.trai.ch/policy/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=included_policy.go -destination=mocks/mock_included_policy.go -package=mocks

// IncludedPolicy is a reference to an upstream policy lock.
type IncludedPolicy interface {
	// Name is the name the including policy gives to the upstream policy.
	Name() string
	// SourceOptions describes where the lock comes from, e.g. {"local": "base.lock.json"}.
	SourceOptions() map[string]string
	// Valid reports whether the reference is complete enough to fetch.
	Valid() bool
	// EnsureCached retrieves the lock into local storage if needed.
	EnsureCached(ctx context.Context) error
	// LockData returns the parsed, validated lock. EnsureCached must succeed first.
	LockData(ctx context.Context) (*domain.PolicyLock, error)
}

// IncludedPolicyFactory opens included policy references declared in a policy file.
type IncludedPolicyFactory interface {
	Open(spec domain.IncludeSpec, opts domain.OpenOptions) (IncludedPolicy, error)
}
