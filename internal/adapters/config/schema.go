package config

// PolicyFile represents the structure of a policy.yml definition.
type PolicyFile struct {
	Name               string              `yaml:"name"`
	DefaultSource      *SourceDTO          `yaml:"default_source"`
	RunList            []string            `yaml:"run_list"`
	NamedRunLists      map[string][]string `yaml:"named_run_lists"`
	Cookbooks          map[string]string   `yaml:"cookbooks"`
	DefaultAttributes  map[string]any      `yaml:"default_attributes"`
	OverrideAttributes map[string]any      `yaml:"override_attributes"`
	IncludePolicies    []IncludeDTO        `yaml:"include_policies"`
}

// SourceDTO represents the default_source block.
type SourceDTO struct {
	Universe string `yaml:"universe"`
	URL      string `yaml:"url"`
	// Cookbooks is an inline universe: name -> version -> dependency -> requirement.
	Cookbooks map[string]map[string]map[string]string `yaml:"cookbooks"`
	Cache     string                                  `yaml:"cache"`
	TTL       string                                  `yaml:"ttl"`
}

// IncludeDTO represents one entry of include_policies.
type IncludeDTO struct {
	Name   string `yaml:"name"`
	Local  string `yaml:"local"`
	Remote string `yaml:"remote"`
	S3     *S3DTO `yaml:"s3"`
}

// S3DTO addresses a lock in an S3-compatible object store.
type S3DTO struct {
	Endpoint string `yaml:"endpoint"`
	Bucket   string `yaml:"bucket"`
	Key      string `yaml:"key"`
	Secure   *bool  `yaml:"secure"`
}
