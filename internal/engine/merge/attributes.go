package merge

import (
	"maps"
	"reflect"
	"slices"

	"go.trai.ch/policy/internal/core/domain"
)

// Precedence levels of attribute trees.
const (
	PrecedenceDefault  = "default"
	PrecedenceOverride = "override"
)

// Contribution is the pair of attribute trees one policy brings into a merge.
type Contribution struct {
	Source   domain.PolicySource
	Default  domain.AttributeTree
	Override domain.AttributeTree
}

// Attributes deep-merges the default and override trees of every contribution.
// Subtrees merge key by key. Equal leaves collapse into one value; differing leaves,
// or a leaf meeting a subtree, are conflicts. All conflicts of both trees are
// reported together in a single *domain.AttributeConflictError and no tree is
// returned in that case.
func Attributes(contributions []Contribution) (defaults, overrides domain.AttributeTree, err error) {
	defaultRoot := newAttrNode()
	overrideRoot := newAttrNode()
	for _, c := range contributions {
		defaultRoot.insert(c.Source, c.Default)
		overrideRoot.insert(c.Source, c.Override)
	}

	var conflicts []domain.AttributeConflict
	defaults, conflicts = defaultRoot.resolve(PrecedenceDefault, nil, conflicts)
	overrides, conflicts = overrideRoot.resolve(PrecedenceOverride, nil, conflicts)
	if len(conflicts) > 0 {
		return nil, nil, &domain.AttributeConflictError{Conflicts: conflicts}
	}
	return defaults, overrides, nil
}

// attrNode collects every contribution made at one attribute path, in merge order.
type attrNode struct {
	contributions []domain.AttributeContribution
	children      map[string]*attrNode
}

func newAttrNode() *attrNode {
	return &attrNode{children: map[string]*attrNode{}}
}

func (n *attrNode) child(key string) *attrNode {
	c, ok := n.children[key]
	if !ok {
		c = newAttrNode()
		n.children[key] = c
	}
	return c
}

func (n *attrNode) insert(src domain.PolicySource, tree map[string]any) {
	for key, value := range tree {
		c := n.child(key)
		c.contributions = append(c.contributions, domain.AttributeContribution{Source: src, Value: value})
		if sub, ok := domain.AsMap(value); ok {
			c.insert(src, sub)
		}
	}
}

// resolve builds the merged subtree rooted at n. Keys are walked in sorted order so
// that conflicts are reported deterministically.
func (n *attrNode) resolve(
	precedence string,
	path []string,
	conflicts []domain.AttributeConflict,
) (domain.AttributeTree, []domain.AttributeConflict) {
	out := make(domain.AttributeTree, len(n.children))
	for _, key := range slices.Sorted(maps.Keys(n.children)) {
		c := n.children[key]
		childPath := append(slices.Clone(path), key)

		leaves, subtrees := c.split()
		switch {
		case subtrees == 0:
			if !c.leavesAgree() {
				conflicts = append(conflicts, domain.AttributeConflict{
					Precedence:    precedence,
					Path:          childPath,
					Contributions: slices.Clone(c.contributions),
				})
				continue
			}
			out[key] = domain.CloneValue(c.contributions[0].Value)
		case leaves == 0:
			var sub domain.AttributeTree
			sub, conflicts = c.resolve(precedence, childPath, conflicts)
			out[key] = map[string]any(sub)
		default:
			conflicts = append(conflicts, domain.AttributeConflict{
				Precedence:    precedence,
				Path:          childPath,
				Contributions: slices.Clone(c.contributions),
			})
		}
	}
	return out, conflicts
}

func (n *attrNode) split() (leaves, subtrees int) {
	for _, c := range n.contributions {
		if _, ok := domain.AsMap(c.Value); ok {
			subtrees++
		} else {
			leaves++
		}
	}
	return leaves, subtrees
}

func (n *attrNode) leavesAgree() bool {
	first := n.contributions[0].Value
	for _, c := range n.contributions[1:] {
		if !reflect.DeepEqual(first, c.Value) {
			return false
		}
	}
	return true
}
