// Package merge combines run lists and attribute trees from included policies
// with those of the including policy.
package merge

import (
	"maps"
	"slices"

	"go.trai.ch/policy/internal/core/domain"
)

// RunLists concatenates the included run lists in inclusion order followed by the
// top-level run list. Duplicates are removed, keeping the first occurrence.
func RunLists(included []domain.RunList, top domain.RunList) domain.RunList {
	out := make(domain.RunList, 0, len(top))
	seen := make(map[domain.RunListItem]struct{})
	for _, item := range slices.Concat(append(slices.Clone(included), top)...) {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// NamedRunLists merges named run lists by name. For each name, the lists of every
// policy that declares it are merged like RunLists, included policies first.
func NamedRunLists(included []domain.NamedRunLists, top domain.NamedRunLists) domain.NamedRunLists {
	contributors := append(slices.Clone(included), top)

	names := make(map[string]struct{})
	for _, named := range contributors {
		for name := range named {
			names[name] = struct{}{}
		}
	}

	out := make(domain.NamedRunLists, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		var lists []domain.RunList
		for _, named := range contributors {
			if rl, ok := named[name]; ok {
				lists = append(lists, rl)
			}
		}
		out[name] = RunLists(lists[:len(lists)-1], lists[len(lists)-1])
	}
	return out
}
