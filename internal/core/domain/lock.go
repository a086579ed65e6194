package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// PolicyLock is the fully resolved, serializable result of compiling one policy.
// Field order matches the lockfile layout.
type PolicyLock struct {
	RevisionID         string                     `json:"revision_id"`
	Name               string                     `json:"name"`
	RunList            RunList                    `json:"run_list"`
	NamedRunLists      NamedRunLists              `json:"named_run_lists,omitempty"`
	IncludedPolicies   []IncludedPolicyDescriptor `json:"included_policies,omitempty"`
	CookbookLocks      map[string]CookbookLock    `json:"cookbook_locks"`
	DefaultAttributes  AttributeTree              `json:"default_attributes"`
	OverrideAttributes AttributeTree              `json:"override_attributes"`
	Solution           SolutionDependencies       `json:"solution_dependencies"`
}

// CookbookLock records the resolved version and provenance of one cookbook.
type CookbookLock struct {
	Version                 string            `json:"version"`
	Identifier              string            `json:"identifier"`
	DottedDecimalIdentifier string            `json:"dotted_decimal_identifier"`
	CacheKey                string            `json:"cache_key"`
	Origin                  string            `json:"origin"`
	SourceOptions           map[string]string `json:"source_options"`
}

// Clone returns a copy of the lock entry that shares no maps with the receiver.
func (c CookbookLock) Clone() CookbookLock {
	out := c
	out.SourceOptions = maps.Clone(c.SourceOptions)
	if out.SourceOptions == nil {
		out.SourceOptions = map[string]string{}
	}
	return out
}

// SolutionDependencies is the audit record of the constraints behind a solution.
type SolutionDependencies struct {
	// Policyfile holds the root constraints declared by the compiled policy, sorted by name.
	Policyfile []Dependency `json:"Policyfile"`
	// Dependencies maps "name (version)" to the dependencies of that version.
	Dependencies map[string][]Dependency `json:"dependencies"`
}

// DependenciesOf returns the recorded dependencies of a resolved cookbook version.
func (s SolutionDependencies) DependenciesOf(name, version string) ([]Dependency, bool) {
	deps, ok := s.Dependencies[CookbookVersionKey(name, version)]
	return deps, ok
}

// IncludedPolicyDescriptor identifies an included policy in the including lock.
type IncludedPolicyDescriptor struct {
	Name          string            `json:"name"`
	SourceOptions map[string]string `json:"source_options"`
	RevisionID    string            `json:"revision_id"`
}

// IncludedLock is an included policy's lock paired with its attribution.
type IncludedLock struct {
	Source        PolicySource
	SourceOptions map[string]string
	Lock          *PolicyLock
}

// Label returns the source label used for constraints pinned by this include.
func (l IncludedLock) Label() string {
	return "included " + l.Source.String()
}

// Descriptor returns the included_policies entry for this include.
func (l IncludedLock) Descriptor() IncludedPolicyDescriptor {
	opts := maps.Clone(l.SourceOptions)
	if opts == nil {
		opts = map[string]string{}
	}
	return IncludedPolicyDescriptor{
		Name:          l.Source.Name,
		SourceOptions: opts,
		RevisionID:    l.Lock.RevisionID,
	}
}

// CookbookNames returns the locked cookbook names in sorted order.
func (l *PolicyLock) CookbookNames() []string {
	return slices.Sorted(maps.Keys(l.CookbookLocks))
}

// Validate checks that every run list item, including named run lists, references a locked cookbook.
func (l *PolicyLock) Validate() error {
	if l.Name == "" {
		return ErrMissingPolicyName
	}
	check := func(list string, rl RunList) error {
		for _, item := range rl {
			if _, ok := l.CookbookLocks[item.Cookbook()]; !ok {
				err := zerr.With(ErrRunListCookbookNotLocked, "cookbook", item.Cookbook())
				return zerr.With(err, "run_list", list)
			}
		}
		return nil
	}
	if err := check("run_list", l.RunList); err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(l.NamedRunLists)) {
		if err := check(name, l.NamedRunLists[name]); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders the lock as indented JSON with a trailing newline. HTML characters are
// left unescaped so requirements such as ">= 0.0.0" stay readable.
func (l *PolicyLock) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return nil, zerr.Wrap(err, ErrLockMarshalFailed.Error())
	}
	return buf.Bytes(), nil
}
