// Package compiler drives a policy compile: fetch included locks, merge, build the
// universe, solve and emit the lock.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
	"go.trai.ch/policy/internal/engine/merge"
	"go.trai.ch/policy/internal/engine/solver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Phase names, in execution order.
const (
	PhaseFetch    = "fetch"
	PhaseMerge    = "merge"
	PhaseUniverse = "universe"
	PhaseSolve    = "solve"
	PhaseEmit     = "emit"
)

// Config is everything one compile needs. It is assembled up front and not modified
// by the compiler.
type Config struct {
	Name string
	// Location identifies the policy in error messages, typically its file path.
	Location           string
	RunList            domain.RunList
	NamedRunLists      domain.NamedRunLists
	DefaultAttributes  domain.AttributeTree
	OverrideAttributes domain.AttributeTree
	// Cookbooks are explicit version constraints declared by the policy.
	Cookbooks []domain.Constraint
	// Universe supplies free cookbooks. A nil source is an empty universe.
	Universe ports.UniverseSource
	Includes []ports.IncludedPolicy
}

// Source returns the attribution of the compiled policy itself.
func (c Config) Source() domain.PolicySource {
	return domain.PolicySource{Name: c.Name, Location: c.Location}
}

// Compiler turns a Config into a PolicyLock.
type Compiler struct {
	tracer ports.Tracer
}

// New creates a new Compiler.
func New(tracer ports.Tracer) *Compiler {
	return &Compiler{tracer: tracer}
}

// merged is the output of the merge phase.
type merged struct {
	runList       domain.RunList
	namedRunLists domain.NamedRunLists
	defaults      domain.AttributeTree
	overrides     domain.AttributeTree
}

// Compile runs every phase and returns the lock. Errors are terminal: no partial lock is
// ever returned.
func (c *Compiler) Compile(ctx context.Context, cfg Config) (*domain.PolicyLock, error) {
	if cfg.Name == "" {
		return nil, domain.ErrMissingPolicyName
	}
	if len(cfg.RunList) == 0 && len(cfg.Includes) == 0 {
		return nil, zerr.With(domain.ErrEmptyPolicy, "policy", cfg.Name)
	}

	var (
		includes []domain.IncludedLock
		graph    domain.UniverseGraph
		m        merged
		universe *domain.Universe
		roots    []domain.Constraint
		solution solver.Solution
		lock     *domain.PolicyLock
	)

	err := c.phase(ctx, PhaseFetch, func(ctx context.Context, span ports.Span) error {
		var err error
		includes, graph, err = fetch(ctx, cfg)
		for _, inc := range includes {
			_, _ = fmt.Fprintf(span, "%s at revision %s\n", inc.Label(), inc.Lock.RevisionID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = c.phase(ctx, PhaseMerge, func(_ context.Context, _ ports.Span) error {
		var err error
		m, err = mergePolicies(cfg, includes)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = c.phase(ctx, PhaseUniverse, func(_ context.Context, span ports.Span) error {
		var err error
		universe, err = solver.BuildUniverse(graph, includes)
		if err != nil {
			return err
		}
		span.SetAttribute("cookbooks", len(universe.Names()))
		span.SetAttribute("pins", len(universe.Pins()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.phase(ctx, PhaseSolve, func(_ context.Context, span ports.Span) error {
		var err error
		roots, err = rootConstraints(cfg, m, universe)
		if err != nil {
			return err
		}
		solution, err = solver.Solve(universe, roots)
		if err != nil {
			return err
		}
		span.SetAttribute("resolved", len(solution))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.phase(ctx, PhaseEmit, func(_ context.Context, _ ports.Span) error {
		var err error
		lock, err = emit(cfg, includes, m, roots, solution)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lock, nil
}

func (c *Compiler) phase(
	ctx context.Context,
	name string,
	fn func(ctx context.Context, span ports.Span) error,
) error {
	ctx, span := c.tracer.Start(ctx, name, ports.AsPhase())
	defer span.End()

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// fetch retrieves every included lock and the universe graph concurrently. Each fetch
// writes only to its own slot; all failures are joined.
func fetch(ctx context.Context, cfg Config) ([]domain.IncludedLock, domain.UniverseGraph, error) {
	locks := make([]domain.IncludedLock, len(cfg.Includes))
	errs := make([]error, len(cfg.Includes)+1)
	var graph domain.UniverseGraph

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, inc := range cfg.Includes {
		g.Go(func() error {
			locks[i], errs[i] = fetchInclude(ctx, inc)
			return nil
		})
	}
	if cfg.Universe != nil {
		g.Go(func() error {
			graph, errs[len(errs)-1] = cfg.Universe.UniverseGraph(ctx)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	if graph == nil {
		graph = domain.UniverseGraph{}
	}
	return locks, graph, nil
}

func fetchInclude(ctx context.Context, inc ports.IncludedPolicy) (domain.IncludedLock, error) {
	opts := inc.SourceOptions()
	src := domain.PolicySource{Name: inc.Name(), Location: domain.DescribeLocation(opts)}

	if !inc.Valid() {
		return domain.IncludedLock{}, &domain.FetchError{Policy: src, Err: domain.ErrInvalidIncludedPolicy}
	}
	if err := inc.EnsureCached(ctx); err != nil {
		return domain.IncludedLock{}, &domain.FetchError{Policy: src, Err: err}
	}
	lock, err := inc.LockData(ctx)
	if err != nil {
		return domain.IncludedLock{}, &domain.FetchError{Policy: src, Err: err}
	}
	if lock == nil {
		return domain.IncludedLock{}, &domain.FetchError{Policy: src, Err: domain.ErrMissingLockData}
	}
	if src.Name == "" {
		src.Name = lock.Name
	}
	return domain.IncludedLock{Source: src, SourceOptions: opts, Lock: lock}, nil
}

func mergePolicies(cfg Config, includes []domain.IncludedLock) (merged, error) {
	runLists := make([]domain.RunList, 0, len(includes))
	named := make([]domain.NamedRunLists, 0, len(includes))
	contributions := make([]merge.Contribution, 0, len(includes)+1)
	for _, inc := range includes {
		runLists = append(runLists, inc.Lock.RunList)
		named = append(named, inc.Lock.NamedRunLists)
		contributions = append(contributions, merge.Contribution{
			Source:   inc.Source,
			Default:  inc.Lock.DefaultAttributes,
			Override: inc.Lock.OverrideAttributes,
		})
	}
	contributions = append(contributions, merge.Contribution{
		Source:   cfg.Source(),
		Default:  cfg.DefaultAttributes,
		Override: cfg.OverrideAttributes,
	})

	defaults, overrides, err := merge.Attributes(contributions)
	if err != nil {
		return merged{}, err
	}
	return merged{
		runList:       merge.RunLists(runLists, cfg.RunList),
		namedRunLists: merge.NamedRunLists(named, cfg.NamedRunLists),
		defaults:      defaults,
		overrides:     overrides,
	}, nil
}

// rootConstraints collects the direct constraints of the compile: every pin, every
// cookbook referenced by a run list, and the policy's explicit cookbook constraints.
func rootConstraints(cfg Config, m merged, u *domain.Universe) ([]domain.Constraint, error) {
	label := cfg.Source().String()
	var roots []domain.Constraint

	for _, pin := range u.Pins() {
		req, err := domain.ExactRequirement(pin.Version)
		if err != nil {
			return nil, zerr.With(err, "cookbook", pin.Cookbook)
		}
		roots = append(roots, domain.Constraint{Name: pin.Cookbook, Requirement: req, Source: pin.Source})
	}

	anyVersion := domain.MustParseRequirement(domain.AnyVersion)
	lists := []domain.RunList{m.runList}
	for _, name := range slices.Sorted(maps.Keys(m.namedRunLists)) {
		lists = append(lists, m.namedRunLists[name])
	}
	for _, rl := range lists {
		for _, name := range rl.Cookbooks() {
			roots = append(roots, domain.Constraint{Name: name, Requirement: anyVersion, Source: label})
		}
	}

	for _, c := range cfg.Cookbooks {
		if c.Source == "" {
			c.Source = label
		}
		roots = append(roots, c)
	}
	return roots, nil
}
