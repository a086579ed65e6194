package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

const (
	// DefaultRecipe is the recipe applied when a run list item names only a cookbook.
	DefaultRecipe = "default"

	recipePrefix = "recipe["
	rolePrefix   = "role["
	recipeSep    = "::"
)

// RunListItem is a fully qualified recipe reference.
// Two items are equal when their canonical forms are equal, so the struct is comparable.
type RunListItem struct {
	cookbook InternedString
	recipe   InternedString
}

// NewRunListItem creates a run list item for the given cookbook and recipe.
// An empty recipe name is normalized to "default".
func NewRunListItem(cookbook, recipe string) RunListItem {
	if recipe == "" {
		recipe = DefaultRecipe
	}
	return RunListItem{
		cookbook: NewInternedString(cookbook),
		recipe:   NewInternedString(recipe),
	}
}

// ParseRunListItem parses "recipe[cb::r]", "recipe[cb]", "cb::r" or "cb".
func ParseRunListItem(s string) (RunListItem, error) {
	raw := strings.TrimSpace(s)
	if strings.HasPrefix(raw, rolePrefix) {
		return RunListItem{}, zerr.With(ErrUnsupportedRunListItem, "item", s)
	}

	body := raw
	if strings.HasPrefix(raw, recipePrefix) {
		if !strings.HasSuffix(raw, "]") {
			return RunListItem{}, zerr.With(ErrInvalidRunListItem, "item", s)
		}
		body = raw[len(recipePrefix) : len(raw)-1]
	}

	if body == "" || strings.ContainsAny(body, "[] \t") {
		return RunListItem{}, zerr.With(ErrInvalidRunListItem, "item", s)
	}

	cookbook, recipe, found := strings.Cut(body, recipeSep)
	if cookbook == "" || (found && recipe == "") || strings.Contains(recipe, recipeSep) {
		return RunListItem{}, zerr.With(ErrInvalidRunListItem, "item", s)
	}

	return NewRunListItem(cookbook, recipe), nil
}

// Cookbook returns the cookbook name.
func (i RunListItem) Cookbook() string {
	return i.cookbook.String()
}

// Recipe returns the recipe name.
func (i RunListItem) Recipe() string {
	return i.recipe.String()
}

// String returns the canonical form "recipe[<cookbook>::<recipe>]".
func (i RunListItem) String() string {
	return recipePrefix + i.Cookbook() + recipeSep + i.Recipe() + "]"
}

// MarshalText implements encoding.TextMarshaler.
func (i RunListItem) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *RunListItem) UnmarshalText(text []byte) error {
	item, err := ParseRunListItem(string(text))
	if err != nil {
		return err
	}
	*i = item
	return nil
}

// RunList is an ordered sequence of run list items.
type RunList []RunListItem

// ParseRunList parses every item of a run list, preserving order.
func ParseRunList(items []string) (RunList, error) {
	out := make(RunList, 0, len(items))
	for _, s := range items {
		item, err := ParseRunListItem(s)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Strings returns the canonical form of each item.
func (r RunList) Strings() []string {
	out := make([]string, len(r))
	for i, item := range r {
		out[i] = item.String()
	}
	return out
}

// Cookbooks returns the distinct cookbook names in order of first appearance.
func (r RunList) Cookbooks() []string {
	seen := make(map[string]struct{}, len(r))
	out := make([]string, 0, len(r))
	for _, item := range r {
		name := item.Cookbook()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// MarshalJSON encodes the run list as an array of canonical strings, never null.
func (r RunList) MarshalJSON() ([]byte, error) {
	return marshalUnescaped(r.Strings())
}

// NamedRunLists maps a run list name to its items.
type NamedRunLists map[string]RunList

// ParseNamedRunLists parses every named run list.
func ParseNamedRunLists(lists map[string][]string) (NamedRunLists, error) {
	out := make(NamedRunLists, len(lists))
	for name, items := range lists {
		rl, err := ParseRunList(items)
		if err != nil {
			return nil, zerr.With(err, "named_run_list", name)
		}
		out[name] = rl
	}
	return out, nil
}
