package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// AnyVersion is the requirement string matching every version.
const AnyVersion = ">= 0.0.0"

// Requirement operators.
const (
	OpEqual          = "="
	OpNotEqual       = "!="
	OpGreater        = ">"
	OpGreaterOrEqual = ">="
	OpLess           = "<"
	OpLessOrEqual    = "<="
	OpPessimistic    = "~>"
)

// operators is ordered so that two-character operators are matched first.
var operators = []string{OpPessimistic, OpGreaterOrEqual, OpLessOrEqual, OpNotEqual, OpEqual, OpGreater, OpLess}

// Requirement is a single cookbook version requirement such as "= 1.0.0" or "~> 2.1".
type Requirement struct {
	op      string
	raw     string
	version *semver.Version
	// upper bounds "~>" requirements, exclusive.
	upper *semver.Version
}

// ParseRequirement parses a requirement expression.
// An empty expression matches any version and a bare version means "=".
func ParseRequirement(s string) (Requirement, error) {
	expr := strings.TrimSpace(s)
	if expr == "" {
		expr = AnyVersion
	}

	op := OpEqual
	for _, candidate := range operators {
		if strings.HasPrefix(expr, candidate) {
			op = candidate
			expr = strings.TrimSpace(expr[len(candidate):])
			break
		}
	}

	v, err := ParseVersion(expr)
	if err != nil {
		return Requirement{}, zerr.With(zerr.Wrap(err, ErrInvalidRequirement.Error()), "requirement", s)
	}

	req := Requirement{op: op, raw: expr, version: v}
	if op == OpPessimistic {
		req.upper = pessimisticUpperBound(expr, v)
	}
	return req, nil
}

// MustParseRequirement parses a requirement and panics on error.
func MustParseRequirement(s string) Requirement {
	req, err := ParseRequirement(s)
	if err != nil {
		panic(err)
	}
	return req
}

// ExactRequirement returns the "= <version>" requirement.
func ExactRequirement(version string) (Requirement, error) {
	return ParseRequirement(OpEqual + " " + version)
}

// pessimisticUpperBound computes the exclusive bound of "~>".
// "~> 1" and "~> 1.2" allow up to the next major, "~> 1.2.3" up to the next minor.
func pessimisticUpperBound(raw string, v *semver.Version) *semver.Version {
	var next semver.Version
	if strings.Count(raw, ".") >= 2 {
		next = v.IncMinor()
	} else {
		next = v.IncMajor()
	}
	return &next
}

// Satisfied reports whether v meets the requirement.
// Prerelease versions compare by precedence like any other version.
func (r Requirement) Satisfied(v *semver.Version) bool {
	if r.version == nil {
		return true
	}
	c := v.Compare(r.version)
	switch r.op {
	case OpNotEqual:
		return c != 0
	case OpGreater:
		return c > 0
	case OpGreaterOrEqual:
		return c >= 0
	case OpLess:
		return c < 0
	case OpLessOrEqual:
		return c <= 0
	case OpPessimistic:
		return c >= 0 && v.LessThan(r.upper)
	default:
		return c == 0
	}
}

// String renders the requirement as "<op> <version>" using the version as written.
func (r Requirement) String() string {
	if r.version == nil {
		return AnyVersion
	}
	return r.op + " " + r.raw
}

// ParseVersion parses a cookbook version. Two-segment versions such as "1.2" are accepted.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", s)
	}
	return v, nil
}

// Constraint is a requirement on a cookbook together with the label of whoever introduced it.
// The source is only used for reporting.
type Constraint struct {
	Name        string
	Requirement Requirement
	Source      string
}

// String renders the constraint as "name (requirement)".
func (c Constraint) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Requirement)
}

// Describe renders the constraint with its source, e.g. "c (= 1.0.0) required by local-1.0.0".
func (c Constraint) Describe() string {
	if c.Source == "" {
		return c.String()
	}
	return c.String() + " required by " + c.Source
}

// Dependency returns the serializable pair for the constraint.
func (c Constraint) Dependency() Dependency {
	return Dependency{Name: c.Name, Requirement: c.Requirement.String()}
}

// Dependency is a serializable (name, requirement) pair, encoded as a two element JSON array.
type Dependency struct {
	Name        string
	Requirement string
}

// Constraint parses the requirement and attaches a source label.
func (d Dependency) Constraint(source string) (Constraint, error) {
	req, err := ParseRequirement(d.Requirement)
	if err != nil {
		return Constraint{}, zerr.With(err, "cookbook", d.Name)
	}
	return Constraint{Name: d.Name, Requirement: req, Source: source}, nil
}

// MarshalJSON implements json.Marshaler.
func (d Dependency) MarshalJSON() ([]byte, error) {
	return marshalUnescaped([2]string{d.Name, d.Requirement})
}

// marshalUnescaped encodes v without HTML escaping. Output of a json.Marshaler is
// copied as is, so escaping cannot be undone by the outer encoder.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return zerr.Wrap(err, ErrInvalidDependency.Error())
	}
	if len(pair) != 2 || pair[0] == "" {
		return zerr.With(ErrInvalidDependency, "value", string(data))
	}
	d.Name = pair[0]
	d.Requirement = pair[1]
	return nil
}

// CookbookVersionKey returns the "name (version)" key used in solution dependencies.
func CookbookVersionKey(name, version string) string {
	return fmt.Sprintf("%s (%s)", name, version)
}
