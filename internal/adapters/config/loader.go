// Package config provides the policy definition loader.
package config

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"time"

	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var validPolicyNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Loader implements ports.PolicyLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads and validates the policy file at path.
func (l *Loader) Load(path string) (*domain.PolicyDefinition, error) {
	var file PolicyFile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}

	def, err := l.buildDefinition(&file)
	if err != nil {
		return nil, zerr.With(err, "policy_file", path)
	}
	def.Path = path

	return def, nil
}

func (l *Loader) buildDefinition(file *PolicyFile) (*domain.PolicyDefinition, error) {
	if err := validatePolicyName(file.Name); err != nil {
		return nil, err
	}

	runList, err := domain.ParseRunList(file.RunList)
	if err != nil {
		return nil, err
	}

	namedRunLists, err := domain.ParseNamedRunLists(file.NamedRunLists)
	if err != nil {
		return nil, err
	}

	cookbooks, err := buildCookbooks(file.Cookbooks)
	if err != nil {
		return nil, err
	}

	defaults, err := domain.NormalizeAttributes(file.DefaultAttributes)
	if err != nil {
		return nil, zerr.With(err, "field", "default_attributes")
	}
	overrides, err := domain.NormalizeAttributes(file.OverrideAttributes)
	if err != nil {
		return nil, zerr.With(err, "field", "override_attributes")
	}

	source, err := l.buildSource(file.DefaultSource)
	if err != nil {
		return nil, err
	}

	includes, err := buildIncludes(file.IncludePolicies)
	if err != nil {
		return nil, err
	}

	return &domain.PolicyDefinition{
		Name:               file.Name,
		DefaultSource:      source,
		RunList:            runList,
		NamedRunLists:      namedRunLists,
		Cookbooks:          cookbooks,
		DefaultAttributes:  defaults,
		OverrideAttributes: overrides,
		Includes:           includes,
	}, nil
}

func validatePolicyName(name string) error {
	if name == "" {
		return domain.ErrMissingPolicyName
	}
	if !validPolicyNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidPolicyName, "policy_name", name)
	}
	return nil
}

// buildCookbooks returns explicit cookbook constraints sorted by name.
func buildCookbooks(cookbooks map[string]string) ([]domain.Constraint, error) {
	out := make([]domain.Constraint, 0, len(cookbooks))
	for _, name := range slices.Sorted(maps.Keys(cookbooks)) {
		req, err := domain.ParseRequirement(cookbooks[name])
		if err != nil {
			return nil, zerr.With(err, "cookbook", name)
		}
		out = append(out, domain.Constraint{Name: name, Requirement: req})
	}
	return out, nil
}

func (l *Loader) buildSource(dto *SourceDTO) (*domain.SourceSpec, error) {
	if dto == nil {
		return nil, nil
	}

	declared := 0
	for _, set := range []bool{dto.Universe != "", dto.URL != "", dto.Cookbooks != nil} {
		if set {
			declared++
		}
	}
	if declared != 1 {
		return nil, zerr.With(domain.ErrInvalidSource, "declared", declared)
	}

	spec := &domain.SourceSpec{
		Universe: dto.Universe,
		URL:      dto.URL,
		Cache:    dto.Cache,
	}

	if dto.TTL != "" {
		ttl, err := time.ParseDuration(dto.TTL)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "ttl", dto.TTL)
		}
		spec.TTL = ttl
	}

	if dto.Cache != "" && dto.URL == "" {
		l.Logger.Warn("'cache' in default_source has no effect without 'url'")
	}

	if dto.Cookbooks != nil {
		inline, err := buildInlineUniverse(dto.Cookbooks)
		if err != nil {
			return nil, err
		}
		spec.Inline = inline
	}

	return spec, nil
}

func buildInlineUniverse(cookbooks map[string]map[string]map[string]string) (domain.UniverseGraph, error) {
	graph := make(domain.UniverseGraph, len(cookbooks))
	for name, versions := range cookbooks {
		graph[name] = make(map[string][]domain.Dependency, len(versions))
		for version, deps := range versions {
			if _, err := domain.ParseVersion(version); err != nil {
				return nil, zerr.With(err, "cookbook", name)
			}
			list := make([]domain.Dependency, 0, len(deps))
			for _, dep := range slices.Sorted(maps.Keys(deps)) {
				if _, err := domain.ParseRequirement(deps[dep]); err != nil {
					return nil, zerr.With(zerr.With(err, "cookbook", name), "dependency", dep)
				}
				list = append(list, domain.Dependency{Name: dep, Requirement: deps[dep]})
			}
			graph[name][version] = list
		}
	}
	return graph, nil
}

func buildIncludes(dtos []IncludeDTO) ([]domain.IncludeSpec, error) {
	if len(dtos) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(dtos))
	out := make([]domain.IncludeSpec, 0, len(dtos))
	for i, dto := range dtos {
		if err := validatePolicyName(dto.Name); err != nil {
			return nil, zerr.With(err, "include_index", i)
		}
		if _, ok := seen[dto.Name]; ok {
			return nil, zerr.With(domain.ErrDuplicateInclude, "include", dto.Name)
		}
		seen[dto.Name] = struct{}{}

		spec, err := buildInclude(dto)
		if err != nil {
			return nil, zerr.With(err, "include", dto.Name)
		}
		out = append(out, spec)
	}
	return out, nil
}

func buildInclude(dto IncludeDTO) (domain.IncludeSpec, error) {
	declared := 0
	for _, set := range []bool{dto.Local != "", dto.Remote != "", dto.S3 != nil} {
		if set {
			declared++
		}
	}
	if declared != 1 {
		return domain.IncludeSpec{}, zerr.With(domain.ErrInvalidIncludeSpec, "declared", declared)
	}

	spec := domain.IncludeSpec{
		Name:   dto.Name,
		Local:  dto.Local,
		Remote: dto.Remote,
	}

	if dto.S3 != nil {
		if dto.S3.Endpoint == "" || dto.S3.Bucket == "" || dto.S3.Key == "" {
			return domain.IncludeSpec{}, zerr.With(domain.ErrInvalidIncludeSpec, "s3", "endpoint, bucket and key are required")
		}
		secure := true
		if dto.S3.Secure != nil {
			secure = *dto.S3.Secure
		}
		spec.S3 = &domain.S3Location{
			Endpoint: dto.S3.Endpoint,
			Bucket:   dto.S3.Bucket,
			Key:      dto.S3.Key,
			Secure:   secure,
		}
	}

	return spec, nil
}

func readAndUnmarshalYAML(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return nil
}

