package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// AttributeTree is a nested mapping of attribute names to scalars, arrays or subtrees.
// Values are restricted to JSON types so that trees loaded from YAML and trees
// decoded from lock files compare equal.
type AttributeTree map[string]any

// NormalizeAttributes converts an arbitrary decoded document into an AttributeTree
// holding only JSON value types. A nil input yields an empty tree.
func NormalizeAttributes(v any) (AttributeTree, error) {
	if v == nil {
		return AttributeTree{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to normalize attributes")
	}
	tree := AttributeTree{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, zerr.Wrap(err, "attributes must be a mapping")
	}
	if tree == nil {
		// A typed nil map encodes as null.
		return AttributeTree{}, nil
	}
	return tree, nil
}

// Clone returns a deep copy of the tree.
func (t AttributeTree) Clone() AttributeTree {
	out := make(AttributeTree, len(t))
	for k, v := range t {
		out[k] = CloneValue(v)
	}
	return out
}

// AsMap returns the tree as a plain map. Subtrees may be either type.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case AttributeTree:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// CloneValue deep-copies an attribute value. Subtrees come back as map[string]any.
func CloneValue(v any) any {
	if m, ok := AsMap(v); ok {
		out := make(map[string]any, len(m))
		for k, sub := range m {
			out[k] = CloneValue(sub)
		}
		return out
	}
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, sub := range s {
			out[i] = CloneValue(sub)
		}
		return out
	}
	return v
}

// PolicySource identifies a contributing policy for error attribution.
type PolicySource struct {
	Name     string
	Location string
}

// String renders the source as "policy <name> (<location>)".
func (s PolicySource) String() string {
	if s.Location == "" {
		return "policy " + s.Name
	}
	return fmt.Sprintf("policy %s (%s)", s.Name, s.Location)
}

// DescribeLocation renders source options deterministically, e.g. "local: somelocation".
func DescribeLocation(opts map[string]string) string {
	keys := slices.Sorted(maps.Keys(opts))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+opts[k])
	}
	return strings.Join(parts, ", ")
}
