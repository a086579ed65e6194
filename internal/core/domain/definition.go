package domain

import "time"

// PolicyDefinition is a parsed, validated policy file.
type PolicyDefinition struct {
	Name string
	// Path is the file the definition was loaded from. It locates the top-level
	// policy in error messages and anchors relative include paths.
	Path               string
	DefaultSource      *SourceSpec
	RunList            RunList
	NamedRunLists      NamedRunLists
	Cookbooks          []Constraint
	DefaultAttributes  AttributeTree
	OverrideAttributes AttributeTree
	Includes           []IncludeSpec
}

// Source returns the attribution for the policy itself.
func (d *PolicyDefinition) Source() PolicySource {
	return PolicySource{Name: d.Name, Location: d.Path}
}

// SourceSpec declares where the cookbook universe comes from.
// Exactly one of Universe, URL or Inline is set.
type SourceSpec struct {
	// Universe is a path to a local universe document.
	Universe string
	// URL is a remote universe endpoint.
	URL string
	// Inline is a universe declared in the policy file itself.
	Inline UniverseGraph
	// Cache is an optional Redis URL used to cache remote universe documents.
	Cache string
	// TTL bounds how long cached universe documents are reused.
	TTL time.Duration
}

// S3Location addresses a lock document in an S3-compatible object store.
type S3Location struct {
	Endpoint string
	Bucket   string
	Key      string
	Secure   bool
}

// IncludeSpec references an upstream policy lock.
// Exactly one of Local, Remote or S3 is set.
type IncludeSpec struct {
	Name   string
	Local  string
	Remote string
	S3     *S3Location
}

// SourceOptions returns the location descriptor recorded in included_policies.
func (s IncludeSpec) SourceOptions() map[string]string {
	switch {
	case s.Local != "":
		return map[string]string{"local": s.Local}
	case s.Remote != "":
		return map[string]string{"remote": s.Remote}
	case s.S3 != nil:
		return map[string]string{"s3": s.S3.Endpoint + "/" + s.S3.Bucket + "/" + s.S3.Key}
	default:
		return map[string]string{}
	}
}

// OpenOptions tune how sources and includes are opened.
type OpenOptions struct {
	// BaseDir resolves relative paths.
	BaseDir string
	// NoCache bypasses disk and Redis caches.
	NoCache bool
}
