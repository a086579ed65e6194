// Package solver builds the cookbook universe and resolves one version per cookbook.
package solver

import (
	"maps"
	"slices"

	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// BuildUniverse assembles an immutable universe from an external graph and the locks of
// included policies. Every cookbook an included policy resolved is pinned to that version:
// its entries are replaced by a single entry carrying the dependencies recorded in the
// included lock. Included policies that pin one cookbook to different versions fail with
// a *domain.PinConflictError listing every disagreeing pin.
func BuildUniverse(graph domain.UniverseGraph, includes []domain.IncludedLock) (*domain.Universe, error) {
	entries := make(map[string][]domain.UniverseEntry, len(graph))
	for _, name := range slices.Sorted(maps.Keys(graph)) {
		versions := graph[name]
		for _, version := range slices.Sorted(maps.Keys(versions)) {
			entry, err := newEntry(name, version, versions[version])
			if err != nil {
				return nil, err
			}
			entries[name] = append(entries[name], entry)
		}
	}

	pins, err := collectPins(includes)
	if err != nil {
		return nil, err
	}

	for _, name := range slices.Sorted(maps.Keys(pins)) {
		pin := pins[name]
		inc := includes[pin.index]
		deps, found := inc.Lock.Solution.DependenciesOf(name, pin.Version)
		if !found {
			missing := zerr.With(domain.ErrMissingSolutionDependencies, "included_policy", inc.Source.String())
			return nil, zerr.With(missing, "cookbook", domain.CookbookVersionKey(name, pin.Version))
		}
		entry, err := newEntry(name, pin.Version, deps)
		if err != nil {
			return nil, zerr.With(err, "included_policy", inc.Source.Name)
		}
		entry.Pin = &pin.Pin
		entries[name] = []domain.UniverseEntry{entry}
	}

	plain := make(map[string]domain.Pin, len(pins))
	for name, pin := range pins {
		plain[name] = pin.Pin
	}
	return domain.NewUniverse(entries, plain), nil
}

type indexedPin struct {
	domain.Pin
	index int
}

// collectPins gathers the cookbook locks of every include. The first include to lock a
// cookbook owns the pin; later includes must agree on the version.
func collectPins(includes []domain.IncludedLock) (map[string]indexedPin, error) {
	pins := make(map[string]indexedPin)
	disagreements := make(map[string][]domain.Pin)

	for i, inc := range includes {
		for _, name := range inc.Lock.CookbookNames() {
			lock := inc.Lock.CookbookLocks[name]
			pin := domain.Pin{
				Cookbook: name,
				Version:  lock.Version,
				Lock:     lock.Clone(),
				Source:   inc.Label(),
			}
			existing, ok := pins[name]
			if !ok {
				pins[name] = indexedPin{Pin: pin, index: i}
				continue
			}
			if existing.Version == pin.Version {
				continue
			}
			if _, seen := disagreements[name]; !seen {
				disagreements[name] = []domain.Pin{existing.Pin}
			}
			disagreements[name] = append(disagreements[name], pin)
		}
	}

	if len(disagreements) == 0 {
		return pins, nil
	}
	conflicts := make([]domain.PinConflict, 0, len(disagreements))
	for _, name := range slices.Sorted(maps.Keys(disagreements)) {
		conflicts = append(conflicts, domain.PinConflict{Cookbook: name, Pins: disagreements[name]})
	}
	return nil, &domain.PinConflictError{Conflicts: conflicts}
}

func newEntry(name, version string, deps []domain.Dependency) (domain.UniverseEntry, error) {
	v, err := domain.ParseVersion(version)
	if err != nil {
		return domain.UniverseEntry{}, zerr.With(err, "cookbook", name)
	}
	entry := domain.UniverseEntry{Name: name, Version: v}
	constraints := make([]domain.Constraint, 0, len(deps))
	for _, dep := range deps {
		c, err := dep.Constraint(entry.Label())
		if err != nil {
			return domain.UniverseEntry{}, zerr.With(err, "dependent", entry.Label())
		}
		constraints = append(constraints, c)
	}
	entry.Dependencies = constraints
	return entry, nil
}
