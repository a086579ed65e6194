package compiler

import (
	"maps"
	"slices"

	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/engine/solver"
	"go.trai.ch/zerr"
)

// emit projects the merged policy and the solution into a lock.
func emit(
	cfg Config,
	includes []domain.IncludedLock,
	m merged,
	roots []domain.Constraint,
	solution solver.Solution,
) (*domain.PolicyLock, error) {
	cookbookLocks := make(map[string]domain.CookbookLock, len(solution))
	dependencies := make(map[string][]domain.Dependency, len(solution))

	for _, name := range slices.Sorted(maps.Keys(solution)) {
		entry := solution[name]
		cl, err := cookbookLock(cfg, entry)
		if err != nil {
			return nil, err
		}
		cookbookLocks[name] = cl

		deps := make([]domain.Dependency, 0, len(entry.Dependencies))
		for _, c := range entry.Dependencies {
			deps = append(deps, c.Dependency())
		}
		dependencies[domain.CookbookVersionKey(name, entry.VersionString())] = deps
	}

	lock := &domain.PolicyLock{
		Name:               cfg.Name,
		RunList:            m.runList,
		CookbookLocks:      cookbookLocks,
		DefaultAttributes:  m.defaults,
		OverrideAttributes: m.overrides,
		Solution: domain.SolutionDependencies{
			Policyfile:   policyfileDependencies(roots),
			Dependencies: dependencies,
		},
	}
	if len(m.namedRunLists) > 0 {
		lock.NamedRunLists = m.namedRunLists
	}
	if len(includes) > 0 {
		lock.IncludedPolicies = make([]domain.IncludedPolicyDescriptor, 0, len(includes))
		for _, inc := range includes {
			lock.IncludedPolicies = append(lock.IncludedPolicies, inc.Descriptor())
		}
	}

	if err := lock.Validate(); err != nil {
		return nil, err
	}
	revision, err := domain.RevisionID(lock)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to compute revision id")
	}
	lock.RevisionID = revision
	return lock, nil
}

// cookbookLock copies the lock of a pinned cookbook and derives a fresh one otherwise.
func cookbookLock(cfg Config, entry domain.UniverseEntry) (domain.CookbookLock, error) {
	if entry.Pin != nil {
		return entry.Pin.Lock.Clone(), nil
	}

	var src domain.CookbookSource
	if cfg.Universe != nil {
		src = cfg.Universe.SourceOptionsFor(entry.Name, entry.VersionString())
	}
	identifier, err := domain.CookbookIdentifier(entry.Name, entry.VersionString(), src)
	if err != nil {
		return domain.CookbookLock{}, zerr.With(err, "cookbook", entry.Label())
	}
	return domain.CookbookLock{
		Version:                 entry.VersionString(),
		Identifier:              identifier,
		DottedDecimalIdentifier: domain.DottedDecimalIdentifier(identifier),
		CacheKey:                src.CacheKey,
		Origin:                  src.Origin,
		SourceOptions:           src.SourceOptions,
	}.Clone(), nil
}

// policyfileDependencies records one constraint per root cookbook, sorted by name.
// Pins and explicit constraints take precedence over run list references.
func policyfileDependencies(roots []domain.Constraint) []domain.Dependency {
	chosen := make(map[string]domain.Constraint, len(roots))
	for _, root := range roots {
		existing, ok := chosen[root.Name]
		if !ok || existing.Requirement.String() == domain.AnyVersion {
			chosen[root.Name] = root
		}
	}

	out := make([]domain.Dependency, 0, len(chosen))
	for _, name := range slices.Sorted(maps.Keys(chosen)) {
		out = append(out, chosen[name].Dependency())
	}
	return out
}
