package includes

import (
	"net/http"
	"path/filepath"
	"time"

	"go.trai.ch/policy/internal/adapters/diskcache"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
	"go.trai.ch/zerr"
)

const httpClientTimeout = 30 * time.Second

// ObjectStoreFunc opens an object store for an S3 location.
type ObjectStoreFunc func(location domain.S3Location) (ObjectStore, error)

// Factory implements ports.IncludedPolicyFactory.
type Factory struct {
	cache       *diskcache.Cache
	client      *http.Client
	objectStore ObjectStoreFunc
}

// NewFactory creates a Factory that caches fetched locks in cacheDir.
func NewFactory(cacheDir string) *Factory {
	return &Factory{
		cache:  diskcache.New(cacheDir),
		client: &http.Client{Timeout: httpClientTimeout},
		objectStore: func(location domain.S3Location) (ObjectStore, error) {
			return NewMinIOStore(location.Endpoint, location.Secure)
		},
	}
}

// WithHTTPClient replaces the client used for remote locks.
func (f *Factory) WithHTTPClient(client *http.Client) *Factory {
	f.client = client
	return f
}

// WithObjectStore replaces the constructor used for S3 locations.
func (f *Factory) WithObjectStore(fn ObjectStoreFunc) *Factory {
	f.objectStore = fn
	return f
}

// Open returns the included policy described by spec.
// Relative local paths are resolved against opts.BaseDir.
func (f *Factory) Open(spec domain.IncludeSpec, opts domain.OpenOptions) (ports.IncludedPolicy, error) {
	switch {
	case spec.Local != "":
		path := spec.Local
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.BaseDir, path)
		}
		return NewLocalPolicy(spec.Name, path, spec.SourceOptions()), nil
	case spec.Remote != "":
		return NewRemotePolicy(spec.Name, spec.Remote, f.client, f.cache, opts.NoCache), nil
	case spec.S3 != nil:
		store, err := f.objectStore(*spec.S3)
		if err != nil {
			return nil, zerr.With(err, "include", spec.Name)
		}
		return NewS3Policy(spec.Name, *spec.S3, store, f.cache, opts.NoCache), nil
	default:
		return nil, zerr.With(domain.ErrInvalidIncludeSpec, "include", spec.Name)
	}
}
