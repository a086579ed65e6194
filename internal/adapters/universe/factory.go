package universe

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/policy/internal/adapters/diskcache"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
	"go.trai.ch/zerr"
)

const httpClientTimeout = 30 * time.Second

// Factory implements ports.UniverseSourceFactory.
type Factory struct {
	cache  *diskcache.Cache
	client *http.Client
	logger ports.Logger
}

// NewFactory creates a Factory that caches remote universes in cacheDir.
func NewFactory(cacheDir string, logger ports.Logger) *Factory {
	return &Factory{
		cache:  diskcache.New(cacheDir),
		client: &http.Client{Timeout: httpClientTimeout},
		logger: logger,
	}
}

// WithHTTPClient replaces the client used for remote universes.
func (f *Factory) WithHTTPClient(client *http.Client) *Factory {
	f.client = client
	return f
}

// Open returns the source declared by spec. Relative universe paths are
// resolved against opts.BaseDir.
func (f *Factory) Open(spec domain.SourceSpec, opts domain.OpenOptions) (ports.UniverseSource, error) {
	switch {
	case spec.Universe != "":
		path := spec.Universe
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.BaseDir, path)
		}
		return NewSource(&FileFetcher{Path: path}, "universe file "+spec.Universe), nil
	case spec.URL != "":
		var fetcher Fetcher = &HTTPFetcher{
			URL:     spec.URL,
			Client:  f.client,
			Cache:   f.cache,
			TTL:     spec.TTL,
			NoCache: opts.NoCache,
		}
		if spec.Cache != "" && !opts.NoCache {
			redisOpts, err := redis.ParseURL(spec.Cache)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidCacheURL.Error()), "cache", spec.Cache)
			}
			fetcher = NewRedisFetcher(fetcher, redis.NewClient(redisOpts), spec.TTL, f.logger)
		}
		return NewSource(fetcher, spec.URL), nil
	case spec.Inline != nil:
		return NewInlineSource(spec.Inline), nil
	default:
		return nil, domain.ErrInvalidSource
	}
}
