package universe

import (
	"context"
	"net/url"
	"sync"

	"go.trai.ch/policy/internal/core/domain"
)

// Source implements ports.UniverseSource over a universe document.
// The document is fetched once and reused.
type Source struct {
	fetcher     Fetcher
	description string

	mu  sync.Mutex
	doc Document
}

// NewSource creates a Source that fetches its document with fetcher.
func NewSource(fetcher Fetcher, description string) *Source {
	return &Source{fetcher: fetcher, description: description}
}

// NewInlineSource creates a Source for a universe declared in the policy file.
func NewInlineSource(graph domain.UniverseGraph) *Source {
	return &Source{description: "inline cookbooks", doc: FromGraph(graph, "inline")}
}

// UniverseGraph returns every cookbook version with its dependencies.
func (s *Source) UniverseGraph(ctx context.Context) (domain.UniverseGraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		data, err := s.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		doc, err := ParseDocument(data)
		if err != nil {
			return nil, err
		}
		s.doc = doc
	}

	return s.doc.Graph(), nil
}

// SourceOptionsFor returns the provenance of a cookbook version.
// The cache key is "<name>-<version>", suffixed with the artifact host when known.
func (s *Source) SourceOptionsFor(name, version string) domain.CookbookSource {
	s.mu.Lock()
	entry := s.doc[name][version]
	s.mu.Unlock()

	options := map[string]string{"version": version}
	cacheKey := name + "-" + version
	origin := entry.LocationPath

	if entry.DownloadURL != "" {
		origin = entry.DownloadURL
		options["artifactserver"] = entry.DownloadURL
		if u, err := url.Parse(entry.DownloadURL); err == nil && u.Host != "" {
			cacheKey += "-" + u.Host
		}
	}

	return domain.CookbookSource{
		Origin:        origin,
		CacheKey:      cacheKey,
		SourceOptions: options,
	}
}

// Description identifies the source.
func (s *Source) Description() string {
	return s.description
}
