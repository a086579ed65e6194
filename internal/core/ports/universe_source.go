package ports

import (
	"context"

	"go.trai.ch/policy/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=universe_source.go -destination=mocks/mock_universe_source.go -package=mocks

// UniverseSource exposes the cookbook versions available for solving.
type UniverseSource interface {
	// UniverseGraph returns every cookbook version with its dependencies.
	UniverseGraph(ctx context.Context) (domain.UniverseGraph, error)
	// SourceOptionsFor returns the provenance of a cookbook version.
	// It is valid after UniverseGraph has succeeded.
	SourceOptionsFor(name, version string) domain.CookbookSource
	// Description identifies the source in logs and cache keys.
	Description() string
}

// UniverseSourceFactory opens the default source declared in a policy file.
type UniverseSourceFactory interface {
	Open(spec domain.SourceSpec, opts domain.OpenOptions) (UniverseSource, error)
}
