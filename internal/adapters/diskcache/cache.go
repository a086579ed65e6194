// Package diskcache stores fetched documents under content-addressed file names.
package diskcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache is a directory of cached documents keyed by an arbitrary string.
type Cache struct {
	dir string
	now func() time.Time
}

// New creates a Cache rooted at dir. The directory is created on first write.
func New(dir string) *Cache {
	return &Cache{dir: filepath.Clean(dir), now: time.Now}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the file that holds the document for key.
func (c *Cache) Path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Read returns the cached document for key. A zero maxAge accepts entries of any age.
// The boolean is false on a miss or when the entry is older than maxAge.
func (c *Cache) Read(key string, maxAge time.Duration) ([]byte, bool, error) {
	path := c.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}
	if maxAge > 0 && c.now().Sub(info.ModTime()) > maxAge {
		return nil, false, nil
	}

	//nolint:gosec // Path is constructed from the cache directory and a hashed file name
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}
	return data, true, nil
}

// Write stores data for key atomically.
func (c *Cache) Write(key string, data []byte) error {
	if err := WriteFileAtomic(c.Path(key), data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "cache_dir", c.dir)
	}
	return nil
}

// WriteFileAtomic writes data to a file atomically by writing to a temp file and renaming it.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, ".policy-write-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
