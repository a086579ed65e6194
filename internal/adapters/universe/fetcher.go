package universe

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.trai.ch/policy/internal/adapters/diskcache"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// Fetcher retrieves the raw universe document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Key identifies the document for caching.
	Key() string
}

// FileFetcher reads a universe document from disk.
type FileFetcher struct {
	Path string
}

// Fetch reads the file.
func (f *FileFetcher) Fetch(_ context.Context) ([]byte, error) {
	//nolint:gosec // path is provided by the policy file
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrUniverseRequestFailed.Error()), "path", f.Path)
	}
	return data, nil
}

// Key returns the file path.
func (f *FileFetcher) Key() string {
	return "file://" + f.Path
}

// HTTPFetcher downloads <URL>/universe and keeps a copy on disk for TTL.
type HTTPFetcher struct {
	URL     string
	Client  *http.Client
	Cache   *diskcache.Cache
	TTL     time.Duration
	NoCache bool
}

// Fetch returns the cached document while it is fresh, otherwise downloads it.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if !f.NoCache && f.TTL > 0 {
		data, ok, err := f.Cache.Read(f.Key(), f.TTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return data, nil
		}
	}

	data, err := f.download(ctx)
	if err != nil {
		return nil, err
	}

	if f.TTL > 0 {
		if err := f.Cache.Write(f.Key(), data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Key returns the universe endpoint.
func (f *HTTPFetcher) Key() string {
	return strings.TrimSuffix(f.URL, "/") + "/universe"
}

func (f *HTTPFetcher) download(ctx context.Context) ([]byte, error) {
	endpoint := f.Key()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrUniverseRequestFailed.Error()), "url", endpoint)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrUniverseRequestFailed.Error()), "url", endpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(domain.ErrUniverseRequestFailed, "status_code", resp.StatusCode)
		return nil, zerr.With(apiErr, "url", endpoint)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrUniverseRequestFailed.Error()), "url", endpoint)
	}
	return data, nil
}
