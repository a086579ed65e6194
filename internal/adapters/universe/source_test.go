package universe_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/policy/internal/adapters/diskcache"
	"go.trai.ch/policy/internal/adapters/universe"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
	"go.trai.ch/policy/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var (
	_ ports.UniverseSource        = (*universe.Source)(nil)
	_ ports.UniverseSourceFactory = (*universe.Factory)(nil)
	_ universe.Fetcher            = (*universe.FileFetcher)(nil)
	_ universe.Fetcher            = (*universe.HTTPFetcher)(nil)
	_ universe.Fetcher            = (*universe.RedisFetcher)(nil)
)

// MockRoundTripper is a helper to mock http.Client behavior.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) *http.Response
	Calls         int
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Calls++
	return m.RoundTripFunc(req), nil
}

func universeServer() *MockRoundTripper {
	return &MockRoundTripper{RoundTripFunc: func(req *http.Request) *http.Response {
		if req.URL.String() == "https://supermarket.example/universe" {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(universeDoc)),
				Header:     make(http.Header),
			}
		}
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(bytes.NewBufferString(""))}
	}}
}

// countingFetcher records how often the wrapped document is fetched.
type countingFetcher struct {
	data  string
	calls int
}

func (f *countingFetcher) Fetch(_ context.Context) ([]byte, error) {
	f.calls++
	return []byte(f.data), nil
}

func (f *countingFetcher) Key() string { return "test://universe" }

func TestSource_SourceOptionsFor(t *testing.T) {
	fetcher := &countingFetcher{data: universeDoc}
	src := universe.NewSource(fetcher, "test")

	graph, err := src.UniverseGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, graph, 3)

	_, err = src.UniverseGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	assert.Equal(t, domain.CookbookSource{
		Origin:   "https://supermarket.example/api/v1/cookbooks/local/versions/1.0.0/download",
		CacheKey: "local-1.0.0-supermarket.example",
		SourceOptions: map[string]string{
			"artifactserver": "https://supermarket.example/api/v1/cookbooks/local/versions/1.0.0/download",
			"version":        "1.0.0",
		},
	}, src.SourceOptionsFor("local", "1.0.0"))

	assert.Equal(t, domain.CookbookSource{
		Origin:        "https://supermarket.example/api/v1",
		CacheKey:      "apt-2.3.0",
		SourceOptions: map[string]string{"version": "2.3.0"},
	}, src.SourceOptionsFor("apt", "2.3.0"))

	assert.Equal(t, "test", src.Description())
}

func TestFactory_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "universe.json"), []byte(universeDoc), domain.FilePerm))

	factory := universe.NewFactory(t.TempDir(), nil)
	src, err := factory.Open(domain.SourceSpec{Universe: "universe.json"}, domain.OpenOptions{BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "universe file universe.json", src.Description())

	graph, err := src.UniverseGraph(context.Background())
	require.NoError(t, err)
	assert.Contains(t, graph, "local")
}

func TestFactory_MissingFile(t *testing.T) {
	factory := universe.NewFactory(t.TempDir(), nil)
	src, err := factory.Open(domain.SourceSpec{Universe: "missing.json"}, domain.OpenOptions{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = src.UniverseGraph(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUniverseRequestFailed.Error())
}

func TestFactory_Inline(t *testing.T) {
	factory := universe.NewFactory(t.TempDir(), nil)
	graph := domain.UniverseGraph{"local": {"1.0.0": {}}}

	src, err := factory.Open(domain.SourceSpec{Inline: graph}, domain.OpenOptions{})
	require.NoError(t, err)

	got, err := src.UniverseGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, graph, got)
	assert.Equal(t, domain.CookbookSource{
		CacheKey:      "local-1.0.0",
		SourceOptions: map[string]string{"version": "1.0.0"},
	}, src.SourceOptionsFor("local", "1.0.0"))
}

func TestFactory_InvalidSpec(t *testing.T) {
	_, err := universe.NewFactory(t.TempDir(), nil).Open(domain.SourceSpec{}, domain.OpenOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidSource)
}

func TestFactory_InvalidCacheURL(t *testing.T) {
	_, err := universe.NewFactory(t.TempDir(), nil).Open(domain.SourceSpec{
		URL:   "https://supermarket.example",
		Cache: "memcached://localhost",
	}, domain.OpenOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidCacheURL.Error())
}

func TestHTTPFetcher_TTLCache(t *testing.T) {
	rt := universeServer()
	cache := diskcache.New(t.TempDir())
	factory := universe.NewFactory(cache.Dir(), nil).WithHTTPClient(&http.Client{Transport: rt})
	spec := domain.SourceSpec{URL: "https://supermarket.example/", TTL: time.Hour}

	for range 2 {
		src, err := factory.Open(spec, domain.OpenOptions{})
		require.NoError(t, err)
		_, err = src.UniverseGraph(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, rt.Calls)

	_, err := os.Stat(cache.Path("https://supermarket.example/universe"))
	require.NoError(t, err)

	src, err := factory.Open(spec, domain.OpenOptions{NoCache: true})
	require.NoError(t, err)
	_, err = src.UniverseGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rt.Calls)
}

func TestHTTPFetcher_NoTTLAlwaysFetches(t *testing.T) {
	rt := universeServer()
	fetcher := &universe.HTTPFetcher{
		URL:    "https://supermarket.example",
		Client: &http.Client{Transport: rt},
		Cache:  diskcache.New(t.TempDir()),
	}

	for range 2 {
		_, err := fetcher.Fetch(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, rt.Calls)
}

func TestHTTPFetcher_NotFound(t *testing.T) {
	fetcher := &universe.HTTPFetcher{
		URL:    "https://elsewhere.example",
		Client: &http.Client{Transport: universeServer()},
		Cache:  diskcache.New(t.TempDir()),
	}

	_, err := fetcher.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUniverseRequestFailed.Error())
}

func TestRedisFetcher_CachesDocument(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	next := &countingFetcher{data: universeDoc}

	fetcher := universe.NewRedisFetcher(next, client, 10*time.Minute, nil)
	key := universe.CacheKey(next.Key())

	data, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, universeDoc, string(data))
	assert.Equal(t, 1, next.calls)

	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, universeDoc, cached)
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	_, err = fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	mr.FastForward(11 * time.Minute)
	_, err = fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestRedisFetcher_DefaultTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	next := &countingFetcher{data: "{}"}

	_, err := universe.NewRedisFetcher(next, client, 0, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, universe.DefaultRedisTTL, mr.TTL(universe.CacheKey(next.Key())))
}

func TestRedisFetcher_UnavailableFallsBack(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(2)

	next := &countingFetcher{data: universeDoc}
	data, err := universe.NewRedisFetcher(next, client, time.Minute, mockLogger).Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, universeDoc, string(data))
	assert.Equal(t, 1, next.calls)
}

func TestCacheKey(t *testing.T) {
	key := universe.CacheKey("https://supermarket.example/universe")
	assert.Equal(t, key, universe.CacheKey("https://supermarket.example/universe"))
	assert.NotEqual(t, key, universe.CacheKey("https://other.example/universe"))
	assert.Len(t, key, len("policy:universe:")+16)
}

func TestFactory_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rt := universeServer()
	factory := universe.NewFactory(t.TempDir(), nil).WithHTTPClient(&http.Client{Transport: rt})
	spec := domain.SourceSpec{URL: "https://supermarket.example", Cache: "redis://" + mr.Addr() + "/0"}

	for range 2 {
		src, err := factory.Open(spec, domain.OpenOptions{})
		require.NoError(t, err)
		_, err = src.UniverseGraph(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, rt.Calls)
	assert.True(t, mr.Exists(universe.CacheKey("https://supermarket.example/universe")))
}
