package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FetchError reports an included policy that could not be retrieved or validated.
type FetchError struct {
	Policy PolicySource
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s %s", ErrFetchFailed.Error(), e.Policy.Name)
	if e.Policy.Location != "" {
		msg += " (" + e.Policy.Location + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetchFailed}
	}
	return []error{ErrFetchFailed, e.Err}
}

// AttributeContribution is the value one policy sets at an attribute path.
type AttributeContribution struct {
	Source PolicySource
	Value  any
}

// AttributeConflict lists every contribution to a path whose values disagree.
type AttributeConflict struct {
	// Precedence is "default" or "override".
	Precedence    string
	Path          []string
	Contributions []AttributeContribution
}

// PathString renders the path as "default_attributes[a][b]".
func (c AttributeConflict) PathString() string {
	var b strings.Builder
	b.WriteString(c.Precedence)
	b.WriteString("_attributes")
	for _, key := range c.Path {
		b.WriteString("[")
		b.WriteString(key)
		b.WriteString("]")
	}
	return b.String()
}

// AttributeConflictError batches every attribute conflict found while merging.
type AttributeConflictError struct {
	Conflicts []AttributeConflict
}

func (e *AttributeConflictError) Error() string {
	var b strings.Builder
	b.WriteString(ErrAttributeConflict.Error())
	b.WriteString(":")
	for _, c := range e.Conflicts {
		parts := make([]string, 0, len(c.Contributions))
		for _, contrib := range c.Contributions {
			parts = append(parts, fmt.Sprintf("%s sets %s", contrib.Source, formatAttributeValue(contrib.Value)))
		}
		b.WriteString("\n  ")
		b.WriteString(c.PathString())
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, "; "))
	}
	return b.String()
}

// Unwrap returns the sentinel.
func (e *AttributeConflictError) Unwrap() error {
	return ErrAttributeConflict
}

func formatAttributeValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// CookbookConflict lists the constraints on one cookbook that no available version satisfies together.
type CookbookConflict struct {
	Cookbook    string
	Constraints []Constraint
	// Unknown is set when no version of the cookbook exists at all.
	Unknown bool
}

// UnsatisfiableConstraintsError reports a failed solve with full source attribution.
type UnsatisfiableConstraintsError struct {
	Conflicts []CookbookConflict
}

func (e *UnsatisfiableConstraintsError) Error() string {
	var b strings.Builder
	b.WriteString(ErrUnsatisfiableConstraints.Error())
	b.WriteString(":")
	for _, c := range e.Conflicts {
		b.WriteString("\n  ")
		b.WriteString(c.Cookbook)
		if c.Unknown {
			b.WriteString(": no versions available, required by:")
		} else {
			b.WriteString(": no version satisfies all of:")
		}
		for _, constraint := range c.Constraints {
			b.WriteString("\n    ")
			b.WriteString(constraint.Describe())
		}
	}
	return b.String()
}

// Unwrap returns the sentinel.
func (e *UnsatisfiableConstraintsError) Unwrap() error {
	return ErrUnsatisfiableConstraints
}

// Constraints returns every conflicting constraint across all cookbooks.
func (e *UnsatisfiableConstraintsError) Constraints() []Constraint {
	var out []Constraint
	for _, c := range e.Conflicts {
		out = append(out, c.Constraints...)
	}
	return out
}

// PinConflict lists the different versions included policies locked a cookbook to.
type PinConflict struct {
	Cookbook string
	Pins     []Pin
}

// PinConflictError reports cookbooks that included policies disagree on.
type PinConflictError struct {
	Conflicts []PinConflict
}

func (e *PinConflictError) Error() string {
	var b strings.Builder
	b.WriteString(ErrPinConflict.Error())
	b.WriteString(":")
	for _, c := range e.Conflicts {
		parts := make([]string, 0, len(c.Pins))
		for _, p := range c.Pins {
			parts = append(parts, fmt.Sprintf("%s (= %s) from %s", c.Cookbook, p.Version, p.Source))
		}
		b.WriteString("\n  ")
		b.WriteString(strings.Join(parts, " conflicts with "))
	}
	return b.String()
}

// Unwrap returns the sentinel.
func (e *PinConflictError) Unwrap() error {
	return ErrPinConflict
}
