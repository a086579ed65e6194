package domain

import (
	"path/filepath"
	"strings"
)

const (
	// PolicyDirName is the name of the internal workspace directory.
	PolicyDirName = ".policy"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// UniverseDirName is the name of the cookbook universe cache directory.
	UniverseDirName = "universe"

	// IncludesDirName is the name of the included policy lock cache directory.
	IncludesDirName = "includes"

	// PolicyFileName is the default policy definition file.
	PolicyFileName = "policy.yml"

	// LockFileSuffix is appended to the policy file's base name to form the lock file name.
	LockFileSuffix = ".lock.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the root of all caches.
// It joins .policy and cache.
func DefaultCachePath() string {
	return filepath.Join(PolicyDirName, CacheDirName)
}

// DefaultUniverseCachePath returns the default path for cached universe documents.
// It joins .policy, cache, and universe.
func DefaultUniverseCachePath() string {
	return filepath.Join(PolicyDirName, CacheDirName, UniverseDirName)
}

// DefaultIncludesCachePath returns the default path for cached included policy locks.
// It joins .policy, cache, and includes.
func DefaultIncludesCachePath() string {
	return filepath.Join(PolicyDirName, CacheDirName, IncludesDirName)
}

// LockPathFor returns the lock file path for a policy definition file,
// e.g. "dir/app.yml" becomes "dir/app.lock.json".
func LockPathFor(policyPath string) string {
	dir := filepath.Dir(policyPath)
	base := filepath.Base(policyPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+LockFileSuffix)
}
