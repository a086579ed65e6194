package includes

import (
	"context"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.trai.ch/policy/internal/adapters/diskcache"
	"go.trai.ch/policy/internal/adapters/lockstore"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// EnvS3AccessKey names the variable holding the object store access key.
	EnvS3AccessKey = "POLICY_S3_ACCESS_KEY"
	// EnvS3SecretKey names the variable holding the object store secret key.
	EnvS3SecretKey = "POLICY_S3_SECRET_KEY"

	s3Region = "us-east-1"
)

// ObjectStore reads objects from an S3-compatible backend.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// MinIOStore is an ObjectStore backed by minio-go.
type MinIOStore struct {
	Client *minio.Client
}

// NewMinIOStore creates a client for endpoint using credentials from the environment.
func NewMinIOStore(endpoint string, secure bool) (*MinIOStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv(EnvS3AccessKey), os.Getenv(EnvS3SecretKey), ""),
		Secure: secure,
		Region: s3Region,
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrObjectStoreFailed.Error()), "endpoint", endpoint)
	}
	return &MinIOStore{Client: client}, nil
}

// GetObject returns a reader for bucket/key.
func (m *MinIOStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := m.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// S3Policy is a lock stored in an S3-compatible bucket and cached on disk.
type S3Policy struct {
	name     string
	location domain.S3Location
	store    ObjectStore
	cache    *diskcache.Cache
	noCache  bool
}

// NewS3Policy creates an S3Policy.
func NewS3Policy(name string, location domain.S3Location, store ObjectStore, cache *diskcache.Cache, noCache bool) *S3Policy {
	return &S3Policy{name: name, location: location, store: store, cache: cache, noCache: noCache}
}

// Name returns the include name.
func (p *S3Policy) Name() string { return p.name }

// SourceOptions returns {"s3": <endpoint>/<bucket>/<key>}.
func (p *S3Policy) SourceOptions() map[string]string {
	return domain.IncludeSpec{S3: &p.location}.SourceOptions()
}

// Valid reports whether the include addresses an object.
func (p *S3Policy) Valid() bool {
	return p.name != "" && p.location.Bucket != "" && p.location.Key != "" && p.store != nil
}

// EnsureCached downloads the object unless a cached copy exists.
func (p *S3Policy) EnsureCached(ctx context.Context) error {
	key := p.cacheKey()
	if !p.noCache {
		if _, ok, err := p.cache.Read(key, 0); err != nil {
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
		return zerr.With(err, "object", key)
	}
	return p.cache.Write(key, data)
}

// LockData decodes the cached lock.
func (p *S3Policy) LockData(_ context.Context) (*domain.PolicyLock, error) {
	key := p.cacheKey()
	data, ok, err := p.cache.Read(key, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, zerr.With(domain.ErrCacheReadFailed, "object", key)
	}
	lock, err := lockstore.Decode(data)
	if err != nil {
		return nil, zerr.With(err, "object", key)
	}
	return lock, nil
}

func (p *S3Policy) cacheKey() string {
	return "s3://" + p.location.Endpoint + "/" + p.location.Bucket + "/" + p.location.Key
}

func (p *S3Policy) fetch(ctx context.Context) ([]byte, error) {
	obj, err := p.store.GetObject(ctx, p.location.Bucket, p.location.Key)
	if err != nil {
		return nil, p.objectError(err)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, p.objectError(err)
	}
	return data, nil
}

func (p *S3Policy) objectError(err error) error {
	objErr := zerr.With(zerr.Wrap(err, domain.ErrObjectStoreFailed.Error()), "bucket", p.location.Bucket)
	return zerr.With(objErr, "key", p.location.Key)
}
