package solver_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/engine/solver"
)

const topLevel = "policy app (policy.yml)"

func anyVersion(name string) domain.Constraint {
	return domain.Constraint{Name: name, Requirement: domain.MustParseRequirement(domain.AnyVersion), Source: topLevel}
}

func pinRoot(pin domain.Pin) domain.Constraint {
	req, err := domain.ExactRequirement(pin.Version)
	if err != nil {
		panic(err)
	}
	return domain.Constraint{Name: pin.Cookbook, Requirement: req, Source: pin.Source}
}

func versionsOf(sol solver.Solution) map[string]string {
	out := make(map[string]string, len(sol))
	for name, entry := range sol {
		out[name] = entry.VersionString()
	}
	return out
}

func mustUniverse(t *testing.T, graph domain.UniverseGraph, includes ...domain.IncludedLock) *domain.Universe {
	t.Helper()
	u, err := solver.BuildUniverse(graph, includes)
	require.NoError(t, err)
	return u
}

func TestSolve_PrefersHighestVersion(t *testing.T) {
	u := mustUniverse(t, domain.UniverseGraph{
		"app":  {"1.0.0": {dep("lib", ">= 1.0")}, "2.0.0": {dep("lib", "~> 1.2")}},
		"lib":  {"1.0.0": {}, "1.2.0": {}, "1.9.1": {}, "2.0.0": {}},
		"idle": {"1.0.0": {}},
	})

	sol, err := solver.Solve(u, []domain.Constraint{anyVersion("app")})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"app": "2.0.0", "lib": "1.9.1"}, versionsOf(sol))
}

func TestSolve_Backtracks(t *testing.T) {
	// app 2.0.0 needs lib 2.x, but db only works with lib 1.x.
	u := mustUniverse(t, domain.UniverseGraph{
		"app": {"1.0.0": {dep("lib", "~> 1.0")}, "2.0.0": {dep("lib", "~> 2.0")}},
		"db":  {"1.0.0": {dep("lib", "< 2.0.0")}},
		"lib": {"1.0.0": {}, "2.0.0": {}},
	})

	sol, err := solver.Solve(u, []domain.Constraint{anyVersion("app"), anyVersion("db")})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"app": "1.0.0", "db": "1.0.0", "lib": "1.0.0"}, versionsOf(sol))
}

func TestSolve_Transitive(t *testing.T) {
	u := mustUniverse(t, domain.UniverseGraph{
		"a": {"1.0.0": {dep("b", ">= 0.0.0")}},
		"b": {"1.0.0": {dep("c", "= 0.5.0")}},
		"c": {"0.5.0": {}, "0.6.0": {}},
	})

	sol, err := solver.Solve(u, []domain.Constraint{anyVersion("a")})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1.0.0", "b": "1.0.0", "c": "0.5.0"}, versionsOf(sol))
}

func TestSolve_Cycle(t *testing.T) {
	u := mustUniverse(t, domain.UniverseGraph{
		"a": {"1.0.0": {dep("b", ">= 0.0.0")}},
		"b": {"1.0.0": {dep("a", "= 1.0.0")}},
	})

	sol, err := solver.Solve(u, []domain.Constraint{anyVersion("a")})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1.0.0", "b": "1.0.0"}, versionsOf(sol))
}

func TestSolve_NoRoots(t *testing.T) {
	sol, err := solver.Solve(mustUniverse(t, conflictGraph()), nil)
	require.NoError(t, err)
	assert.Empty(t, sol)
}

func TestSolve_IncludedPinCompatible(t *testing.T) {
	inc := includedLock("policyfile_lock_a", "somelocation", map[string]string{"cookbookC": "2.0.0"})
	u := mustUniverse(t, conflictGraph(), inc)
	pin, _ := u.Pin("cookbookC")

	sol, err := solver.Solve(u, []domain.Constraint{pinRoot(pin), anyVersion("local_easy")})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cookbookC": "2.0.0", "local_easy": "1.0.0"}, versionsOf(sol))
	assert.NotNil(t, sol["cookbookC"].Pin)
	assert.Nil(t, sol["local_easy"].Pin)
}

func TestSolve_IncludedPinIncompatible(t *testing.T) {
	inc := includedLock("policyfile_lock_a", "somelocation", map[string]string{"cookbookC": "2.0.0"})
	u := mustUniverse(t, conflictGraph(), inc)
	pin, _ := u.Pin("cookbookC")

	_, err := solver.Solve(u, []domain.Constraint{pinRoot(pin), anyVersion("local")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsatisfiableConstraints)
	assert.Contains(t, err.Error(), "cookbookC (= 2.0.0)")
	assert.Contains(t, err.Error(), "cookbookC (= 2.0.0) required by included policy policyfile_lock_a (local: somelocation)")
	assert.Contains(t, err.Error(), "cookbookC (= 1.0.0) required by local-1.0.0")

	var unsat *domain.UnsatisfiableConstraintsError
	require.ErrorAs(t, err, &unsat)
	require.Len(t, unsat.Conflicts, 1)
	assert.Equal(t, "cookbookC", unsat.Conflicts[0].Cookbook)
}

func TestSolve_UnknownCookbook(t *testing.T) {
	u := mustUniverse(t, domain.UniverseGraph{
		"a": {"1.0.0": {dep("missing", ">= 1.0")}},
	})

	_, err := solver.Solve(u, []domain.Constraint{anyVersion("a")})
	var unsat *domain.UnsatisfiableConstraintsError
	require.ErrorAs(t, err, &unsat)
	require.Len(t, unsat.Conflicts, 1)
	assert.True(t, unsat.Conflicts[0].Unknown)
	assert.Contains(t, err.Error(), "missing: no versions available, required by:")
	assert.Contains(t, err.Error(), "missing (>= 1.0) required by a-1.0.0")
}

func TestSolve_NoSatisfyingVersion(t *testing.T) {
	u := mustUniverse(t, domain.UniverseGraph{
		"a": {"1.0.0": {}, "1.5.0": {}},
	})

	_, err := solver.Solve(u, []domain.Constraint{
		{Name: "a", Requirement: domain.MustParseRequirement("> 2.0"), Source: topLevel},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: no version satisfies all of:")
	assert.Contains(t, err.Error(), "a (> 2.0) required by "+topLevel)
}

func TestSolve_Deterministic(t *testing.T) {
	graph := domain.UniverseGraph{
		"a": {"1.0.0": {dep("c", ">= 1.0")}, "1.1.0": {dep("c", ">= 1.0")}},
		"b": {"1.0.0": {dep("c", "< 3.0")}, "2.0.0": {dep("c", "~> 1.0")}},
		"c": {"1.0.0": {}, "1.5.0": {}, "2.0.0": {}, "3.0.0": {}},
	}
	first, err := solver.Solve(mustUniverse(t, graph), []domain.Constraint{anyVersion("a"), anyVersion("b")})
	require.NoError(t, err)

	for range 20 {
		again, err := solver.Solve(mustUniverse(t, graph), []domain.Constraint{anyVersion("b"), anyVersion("a")})
		require.NoError(t, err)
		assert.Equal(t, versionsOf(first), versionsOf(again))
	}
	assert.Equal(t, map[string]string{"a": "1.1.0", "b": "2.0.0", "c": "1.5.0"}, versionsOf(first))
}

func TestSolve_SelfDependency(t *testing.T) {
	tests := []struct {
		name    string
		graph   domain.UniverseGraph
		want    map[string]string
		wantErr string
	}{
		{
			name:    "Unsatisfiable",
			graph:   domain.UniverseGraph{"a": {"1.0.0": {dep("a", "= 2.0.0")}}},
			wantErr: "a (= 2.0.0) required by a-1.0.0",
		},
		{
			name: "SkipsVersionRequiringAnother",
			graph: domain.UniverseGraph{
				"a": {"1.0.0": {}, "1.2.3": {dep("a", "~> 3.1")}},
			},
			want: map[string]string{"a": "1.0.0"},
		},
		{
			name:  "Satisfied",
			graph: domain.UniverseGraph{"a": {"1.0.0": {dep("a", ">= 1.0")}}},
			want:  map[string]string{"a": "1.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := solver.Solve(mustUniverse(t, tt.graph), []domain.Constraint{anyVersion("a")})
			if tt.wantErr != "" {
				require.ErrorIs(t, err, domain.ErrUnsatisfiableConstraints)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, versionsOf(sol))
		})
	}
}

func TestSolve_UnrelatedCookbooksDoNotMultiplySearch(t *testing.T) {
	// b and c disagree on d. Twenty unrelated cookbooks sort ahead of them and each
	// offer two versions, so plain backtracking would retry 2^20 combinations.
	graph := domain.UniverseGraph{
		"b": {"1.0.0": {dep("d", "= 1.0.0")}, "1.1.0": {dep("d", "= 1.0.0")}},
		"c": {"1.0.0": {dep("d", "= 2.0.0")}, "1.1.0": {dep("d", "= 2.0.0")}},
		"d": {"1.0.0": {}, "2.0.0": {}},
	}
	roots := []domain.Constraint{anyVersion("b"), anyVersion("c")}
	for i := range 20 {
		name := fmt.Sprintf("a%02d", i)
		graph[name] = map[string][]domain.Dependency{"1.0.0": {}, "2.0.0": {}}
		roots = append(roots, anyVersion(name))
	}

	start := time.Now()
	_, err := solver.Solve(mustUniverse(t, graph), roots)
	elapsed := time.Since(start)

	var unsat *domain.UnsatisfiableConstraintsError
	require.ErrorAs(t, err, &unsat)
	assert.Equal(t, "d", unsat.Conflicts[0].Cookbook)
	assert.Less(t, elapsed, 5*time.Second)
}
