package domain

import (
	"maps"
	"slices"

	"github.com/Masterminds/semver/v3"
)

// UniverseGraph is the shape exposed by external universe sources:
// cookbook name to version to that version's ordered dependencies.
type UniverseGraph map[string]map[string][]Dependency

// CookbookSource describes where a cookbook version comes from, for lock enrichment.
type CookbookSource struct {
	Origin        string
	CacheKey      string
	SourceOptions map[string]string
}

// UniverseEntry is one available version of a cookbook.
type UniverseEntry struct {
	Name         string
	Version      *semver.Version
	Dependencies []Constraint
	// Pin is set when the entry was contributed by an included policy's lock.
	Pin *Pin
}

// VersionString returns the version as originally written.
func (e UniverseEntry) VersionString() string {
	return e.Version.Original()
}

// Label returns the "<name>-<version>" source label for constraints this entry introduces.
func (e UniverseEntry) Label() string {
	return e.Name + "-" + e.VersionString()
}

// Pin is a cookbook version fixed by an included policy.
type Pin struct {
	Cookbook string
	Version  string
	Lock     CookbookLock
	Source   string
}

// Universe is an immutable snapshot of every known cookbook version.
// Entries per cookbook are ordered from the highest version to the lowest.
type Universe struct {
	cookbooks map[string][]UniverseEntry
	pins      map[string]Pin
}

// NewUniverse builds a snapshot from the given entries and pins.
// The inputs are copied, so later changes by the caller are not observed.
func NewUniverse(entries map[string][]UniverseEntry, pins map[string]Pin) *Universe {
	u := &Universe{
		cookbooks: make(map[string][]UniverseEntry, len(entries)),
		pins:      maps.Clone(pins),
	}
	if u.pins == nil {
		u.pins = map[string]Pin{}
	}
	for name, versions := range entries {
		sorted := slices.Clone(versions)
		slices.SortStableFunc(sorted, func(a, b UniverseEntry) int {
			return b.Version.Compare(a.Version)
		})
		u.cookbooks[name] = sorted
	}
	return u
}

// Versions returns the available versions of a cookbook, highest first.
func (u *Universe) Versions(name string) []UniverseEntry {
	return slices.Clone(u.cookbooks[name])
}

// Has reports whether the universe knows any version of the cookbook.
func (u *Universe) Has(name string) bool {
	return len(u.cookbooks[name]) > 0
}

// Pin returns the pin for a cookbook, if an included policy fixed it.
func (u *Universe) Pin(name string) (Pin, bool) {
	p, ok := u.pins[name]
	return p, ok
}

// Pins returns every pin sorted by cookbook name.
func (u *Universe) Pins() []Pin {
	out := make([]Pin, 0, len(u.pins))
	for _, name := range slices.Sorted(maps.Keys(u.pins)) {
		out = append(out, u.pins[name])
	}
	return out
}

// Names returns all cookbook names in sorted order.
func (u *Universe) Names() []string {
	return slices.Sorted(maps.Keys(u.cookbooks))
}
