// Package universe provides cookbook universe sources for the solver.
package universe

import (
	"encoding/json"
	"maps"
	"slices"

	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// Document is a supermarket-style universe: cookbook name to version to entry.
type Document map[string]map[string]Entry

// Entry describes one cookbook version in a universe document.
type Entry struct {
	LocationType string            `json:"location_type"`
	LocationPath string            `json:"location_path"`
	DownloadURL  string            `json:"download_url"`
	Dependencies map[string]string `json:"dependencies"`
}

// ParseDocument decodes a universe document and checks every version and requirement.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrUniverseParseFailed.Error())
	}
	if doc == nil {
		doc = Document{}
	}

	for name, versions := range doc {
		for version, entry := range versions {
			if _, err := domain.ParseVersion(version); err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrUniverseParseFailed.Error()), "cookbook", name)
			}
			for dep, req := range entry.Dependencies {
				if _, err := domain.ParseRequirement(req); err != nil {
					parseErr := zerr.With(zerr.Wrap(err, domain.ErrUniverseParseFailed.Error()), "cookbook", name)
					return nil, zerr.With(parseErr, "dependency", dep)
				}
			}
		}
	}

	return doc, nil
}

// Graph returns the solver view of the document. Dependencies are ordered by name.
func (d Document) Graph() domain.UniverseGraph {
	graph := make(domain.UniverseGraph, len(d))
	for name, versions := range d {
		graph[name] = make(map[string][]domain.Dependency, len(versions))
		for version, entry := range versions {
			deps := make([]domain.Dependency, 0, len(entry.Dependencies))
			for _, dep := range slices.Sorted(maps.Keys(entry.Dependencies)) {
				deps = append(deps, domain.Dependency{Name: dep, Requirement: entry.Dependencies[dep]})
			}
			graph[name][version] = deps
		}
	}
	return graph
}

// FromGraph builds a document for a universe declared without download locations.
func FromGraph(graph domain.UniverseGraph, locationType string) Document {
	doc := make(Document, len(graph))
	for name, versions := range graph {
		doc[name] = make(map[string]Entry, len(versions))
		for version, deps := range versions {
			entry := Entry{LocationType: locationType, Dependencies: make(map[string]string, len(deps))}
			for _, dep := range deps {
				entry.Dependencies[dep.Name] = dep.Requirement
			}
			doc[name][version] = entry
		}
	}
	return doc
}
