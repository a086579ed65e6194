package domain

import "go.trai.ch/zerr"

var (
	// ErrFetchFailed is returned when an included policy cannot be retrieved or validated.
	ErrFetchFailed = zerr.New("failed to fetch included policy")

	// ErrAttributeConflict is returned when contributing policies set different values for the same attribute.
	ErrAttributeConflict = zerr.New("conflicting attributes")

	// ErrUnsatisfiableConstraints is returned when no cookbook version assignment satisfies all constraints.
	ErrUnsatisfiableConstraints = zerr.New("unable to satisfy cookbook constraints")

	// ErrPinConflict is returned when included policies lock the same cookbook to different versions.
	ErrPinConflict = zerr.New("included policies lock a cookbook to different versions")

	// ErrInvalidRunListItem is returned when a run list item cannot be parsed.
	ErrInvalidRunListItem = zerr.New("invalid run list item")

	// ErrUnsupportedRunListItem is returned for run list items other than recipes, such as roles.
	ErrUnsupportedRunListItem = zerr.New("only recipes are supported in policy run lists")

	// ErrInvalidRequirement is returned when a version requirement cannot be parsed.
	ErrInvalidRequirement = zerr.New("invalid version requirement")

	// ErrInvalidVersion is returned when a cookbook version cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid cookbook version")

	// ErrInvalidDependency is returned when a dependency pair is malformed.
	ErrInvalidDependency = zerr.New("invalid dependency, expected [name, requirement]")

	// ErrRunListCookbookNotLocked is returned when a run list references a cookbook missing from the lock.
	ErrRunListCookbookNotLocked = zerr.New("run list references a cookbook that is not locked")

	// ErrMissingPolicyName is returned when a policy definition or lock has no name.
	ErrMissingPolicyName = zerr.New("missing policy name")

	// ErrInvalidPolicyName is returned when a policy name contains invalid characters.
	ErrInvalidPolicyName = zerr.New("policy name can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrEmptyPolicy is returned when a policy has neither a run list nor included policies.
	ErrEmptyPolicy = zerr.New("policy must have a run list or include other policies")

	// ErrInvalidSource is returned when a default source declares zero or several locations.
	ErrInvalidSource = zerr.New("default source must declare exactly one of universe, url or cookbooks")

	// ErrInvalidCacheURL is returned when a universe cache URL cannot be parsed.
	ErrInvalidCacheURL = zerr.New("invalid universe cache URL")

	// ErrInvalidIncludeSpec is returned when an included policy declares zero or several locations.
	ErrInvalidIncludeSpec = zerr.New("included policy must declare exactly one of local, remote or s3")

	// ErrDuplicateInclude is returned when two included policies share a name.
	ErrDuplicateInclude = zerr.New("duplicate included policy name")

	// ErrInvalidIncludedPolicy is returned when an included policy reference is not valid.
	ErrInvalidIncludedPolicy = zerr.New("included policy reference is not valid")

	// ErrMissingLockData is returned when an included policy yields no lock.
	ErrMissingLockData = zerr.New("included policy returned no lock")

	// ErrLockSchemaViolation is returned when a lock document does not match the lock schema.
	ErrLockSchemaViolation = zerr.New("lock document does not match schema")

	// ErrMissingSolutionDependencies is returned when an included lock locks a cookbook
	// without recording its dependencies.
	ErrMissingSolutionDependencies = zerr.New("included lock has no solution dependencies for a locked cookbook")

	// ErrLockNotReproducible is returned when recompiling a lock yields a different result.
	ErrLockNotReproducible = zerr.New("lock is not reproducible")

	// ErrConfigReadFailed is returned when the policy file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read policy file")

	// ErrConfigParseFailed is returned when the policy file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse policy file")

	// ErrLockReadFailed is returned when a lock file cannot be read.
	ErrLockReadFailed = zerr.New("failed to read lock file")

	// ErrLockUnmarshalFailed is returned when a lock file cannot be decoded.
	ErrLockUnmarshalFailed = zerr.New("failed to unmarshal lock file")

	// ErrLockMarshalFailed is returned when a lock cannot be encoded.
	ErrLockMarshalFailed = zerr.New("failed to marshal lock")

	// ErrLockWriteFailed is returned when a lock file cannot be written.
	ErrLockWriteFailed = zerr.New("failed to write lock file")

	// ErrCacheCreateFailed is returned when a cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache directory")

	// ErrCacheReadFailed is returned when reading from a cache fails.
	ErrCacheReadFailed = zerr.New("failed to read from cache")

	// ErrCacheWriteFailed is returned when writing to a cache fails.
	ErrCacheWriteFailed = zerr.New("failed to write to cache")

	// ErrUniverseRequestFailed is returned when a universe endpoint request fails.
	ErrUniverseRequestFailed = zerr.New("failed to fetch cookbook universe")

	// ErrUniverseParseFailed is returned when a universe document cannot be decoded.
	ErrUniverseParseFailed = zerr.New("failed to parse cookbook universe")

	// ErrRemoteRequestFailed is returned when fetching a remote lock fails.
	ErrRemoteRequestFailed = zerr.New("failed to fetch remote policy lock")

	// ErrObjectStoreFailed is returned when an object store request fails.
	ErrObjectStoreFailed = zerr.New("object store request failed")

	// ErrCompileFailed is returned when a policy compile fails.
	ErrCompileFailed = zerr.New("policy compile failed")
)
