package includes

import (
	"context"
	"io"
	"net/http"

	"go.trai.ch/policy/internal/adapters/diskcache"
	"go.trai.ch/policy/internal/adapters/lockstore"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// RemotePolicy is a lock served over HTTP and cached on disk.
type RemotePolicy struct {
	name    string
	url     string
	client  *http.Client
	cache   *diskcache.Cache
	noCache bool
}

// NewRemotePolicy creates a RemotePolicy. With noCache the lock is fetched even if cached.
func NewRemotePolicy(name, url string, client *http.Client, cache *diskcache.Cache, noCache bool) *RemotePolicy {
	return &RemotePolicy{name: name, url: url, client: client, cache: cache, noCache: noCache}
}

// Name returns the include name.
func (p *RemotePolicy) Name() string { return p.name }

// SourceOptions returns {"remote": <url>}.
func (p *RemotePolicy) SourceOptions() map[string]string {
	return map[string]string{"remote": p.url}
}

// Valid reports whether the include has a name and a URL.
func (p *RemotePolicy) Valid() bool {
	return p.name != "" && p.url != ""
}

// EnsureCached downloads the lock unless a cached copy exists.
// Only documents that decode as valid locks are cached.
func (p *RemotePolicy) EnsureCached(ctx context.Context) error {
	if !p.noCache {
		if _, ok, err := p.cache.Read(p.url, 0); err != nil {
			return err
		} else if ok {
			return nil
		}
	}

	data, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	if _, err := lockstore.Decode(data); err != nil {
		return zerr.With(err, "url", p.url)
	}
	return p.cache.Write(p.url, data)
}

// LockData decodes the cached lock.
func (p *RemotePolicy) LockData(_ context.Context) (*domain.PolicyLock, error) {
	data, ok, err := p.cache.Read(p.url, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, zerr.With(domain.ErrCacheReadFailed, "url", p.url)
	}
	lock, err := lockstore.Decode(data)
	if err != nil {
		return nil, zerr.With(err, "url", p.url)
	}
	return lock, nil
}

func (p *RemotePolicy) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()), "url", p.url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()), "url", p.url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		reqErr := zerr.With(domain.ErrRemoteRequestFailed, "status_code", resp.StatusCode)
		return nil, zerr.With(reqErr, "url", p.url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()), "url", p.url)
	}
	return data, nil
}
