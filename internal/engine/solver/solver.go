package solver

import (
	"maps"
	"slices"

	"go.trai.ch/policy/internal/core/domain"
)

// Solution maps every resolved cookbook to the universe entry chosen for it.
type Solution map[string]domain.UniverseEntry

// Solve assigns one version to every cookbook reachable from the roots so that every
// constraint in the transitive closure holds.
//
// The search is a depth-first backtracking search. At each step it expands the
// unassigned cookbook with the fewest satisfying versions, breaking ties by name, and
// tries candidates from the highest version down. Identical inputs therefore always
// produce the same solution. A failed branch returns the assigned cookbooks that caused
// it, and the search jumps back past every choice not among them. When no assignment
// exists Solve returns a *domain.UnsatisfiableConstraintsError naming every conflicting
// constraint.
func Solve(u *domain.Universe, roots []domain.Constraint) (Solution, error) {
	s := &search{
		universe:    u,
		assigned:    make(Solution),
		constraints: make(map[string][]domain.Constraint),
		imposers:    make(map[string][]string),
		reported:    make(map[string]struct{}),
	}
	for _, root := range roots {
		s.constraints[root.Name] = append(s.constraints[root.Name], root)
		s.imposers[root.Name] = append(s.imposers[root.Name], "")
	}

	if solved, _ := s.run(); !solved {
		return nil, &domain.UnsatisfiableConstraintsError{Conflicts: s.conflicts}
	}
	return maps.Clone(s.assigned), nil
}

// culprits is the set of assigned cookbooks a failure depends on.
type culprits map[string]struct{}

type search struct {
	universe    *domain.Universe
	assigned    Solution
	constraints map[string][]domain.Constraint
	// imposers[name][i] is the assigned cookbook that added constraints[name][i],
	// or "" for a root.
	imposers  map[string][]string
	conflicts []domain.CookbookConflict
	reported  map[string]struct{}
}

func (s *search) run() (bool, culprits) {
	name, candidates, ok := s.next()
	if !ok {
		return true, nil
	}

	blame := s.imposersOf(name)
	if len(candidates) == 0 {
		s.report(domain.CookbookConflict{
			Cookbook:    name,
			Constraints: slices.Clone(s.constraints[name]),
			Unknown:     !s.universe.Has(name),
		})
		return false, blame
	}

	for _, candidate := range candidates {
		if blockers, ok := s.compatible(candidate); !ok {
			maps.Copy(blame, blockers)
			continue
		}

		marks := s.assign(candidate)
		solved, below := s.run()
		if solved {
			return true, nil
		}
		s.unassign(candidate, marks)

		if _, involved := below[name]; !involved {
			// No other version of name can repair a failure it took no part in.
			return false, below
		}
		maps.Copy(blame, below)
	}

	delete(blame, name)
	return false, blame
}

// next picks the most constrained unassigned cookbook.
func (s *search) next() (string, []domain.UniverseEntry, bool) {
	var (
		best           string
		bestCandidates []domain.UniverseEntry
		found          bool
	)
	for _, name := range slices.Sorted(maps.Keys(s.constraints)) {
		if _, done := s.assigned[name]; done {
			continue
		}
		candidates := s.candidates(name)
		if !found || len(candidates) < len(bestCandidates) {
			best, bestCandidates, found = name, candidates, true
		}
		if len(candidates) == 0 {
			break
		}
	}
	return best, bestCandidates, found
}

// candidates returns the versions of a cookbook meeting every active constraint, highest first.
func (s *search) candidates(name string) []domain.UniverseEntry {
	var out []domain.UniverseEntry
	for _, entry := range s.universe.Versions(name) {
		if satisfiesAll(entry, s.constraints[name]) {
			out = append(out, entry)
		}
	}
	return out
}

// imposersOf returns the assigned cookbooks whose dependencies constrain name.
func (s *search) imposersOf(name string) culprits {
	out := make(culprits)
	for _, by := range s.imposers[name] {
		if by != "" {
			out[by] = struct{}{}
		}
	}
	return out
}

// compatible checks the candidate's dependencies against its own version and against
// cookbooks already assigned. It records a conflict for each violated dependency and
// returns the assigned cookbooks that block the candidate.
func (s *search) compatible(candidate domain.UniverseEntry) (culprits, bool) {
	blockers := make(culprits)
	ok := true
	for _, dep := range candidate.Dependencies {
		var chosen domain.UniverseEntry
		if dep.Name == candidate.Name {
			chosen = candidate
		} else {
			var assigned bool
			if chosen, assigned = s.assigned[dep.Name]; !assigned {
				continue
			}
		}
		if dep.Requirement.Satisfied(chosen.Version) {
			continue
		}

		s.report(domain.CookbookConflict{
			Cookbook:    dep.Name,
			Constraints: append(slices.Clone(s.constraints[dep.Name]), dep),
		})
		if dep.Name != candidate.Name {
			blockers[dep.Name] = struct{}{}
		}
		ok = false
	}
	return blockers, ok
}

func (s *search) assign(entry domain.UniverseEntry) map[string]int {
	marks := make(map[string]int, len(entry.Dependencies))
	for _, dep := range entry.Dependencies {
		if _, seen := marks[dep.Name]; !seen {
			marks[dep.Name] = len(s.constraints[dep.Name])
		}
		s.constraints[dep.Name] = append(s.constraints[dep.Name], dep)
		s.imposers[dep.Name] = append(s.imposers[dep.Name], entry.Name)
	}
	s.assigned[entry.Name] = entry
	return marks
}

func (s *search) unassign(entry domain.UniverseEntry, marks map[string]int) {
	delete(s.assigned, entry.Name)
	for name, n := range marks {
		if n == 0 {
			delete(s.constraints, name)
			delete(s.imposers, name)
			continue
		}
		s.constraints[name] = s.constraints[name][:n]
		s.imposers[name] = s.imposers[name][:n]
	}
}

// report records a conflict once, keyed by its rendered constraints.
func (s *search) report(c domain.CookbookConflict) {
	key := c.Cookbook
	for _, constraint := range c.Constraints {
		key += "\x00" + constraint.Describe()
	}
	if _, dup := s.reported[key]; dup {
		return
	}
	s.reported[key] = struct{}{}
	s.conflicts = append(s.conflicts, c)
}

func satisfiesAll(entry domain.UniverseEntry, constraints []domain.Constraint) bool {
	for _, c := range constraints {
		if !c.Requirement.Satisfied(entry.Version) {
			return false
		}
	}
	return true
}
