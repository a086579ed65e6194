// Package app implements the application layer for policy.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/policy/internal/adapters/linear"
	"go.trai.ch/policy/internal/adapters/telemetry"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
	"go.trai.ch/policy/internal/engine/compiler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader   ports.PolicyLoader
	includes ports.IncludedPolicyFactory
	sources  ports.UniverseSourceFactory
	store    ports.LockStore
	logger   ports.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a new App instance.
func New(
	loader ports.PolicyLoader,
	includes ports.IncludedPolicyFactory,
	sources ports.UniverseSourceFactory,
	store ports.LockStore,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		includes: includes,
		sources:  sources,
		store:    store,
		logger:   log,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithOutput redirects phase output and the compile summary.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// PolicyPath is the policy file. Defaults to policy.yml.
	PolicyPath string
	// OutputPath is where the lock is written. Defaults to the policy path with a .lock.json suffix.
	OutputPath string
	NoCache    bool
	CI         bool
}

// Compile resolves the policy file into a lock and writes it.
func (a *App) Compile(ctx context.Context, opts CompileOptions) error {
	path := opts.PolicyPath
	if path == "" {
		path = domain.PolicyFileName
	}

	// 1. Load the definition
	def, err := a.loader.Load(path)
	if err != nil {
		return zerr.Wrap(err, "failed to load policy")
	}

	// 2. Open the universe and the included policies
	cfg, err := a.configFor(def, domain.OpenOptions{BaseDir: filepath.Dir(path), NoCache: opts.NoCache})
	if err != nil {
		return err
	}

	// 3. Compile
	lock, err := a.compile(ctx, cfg, opts.CI)
	if err != nil {
		return err
	}

	// 4. Save and report
	out := opts.OutputPath
	if out == "" {
		out = domain.LockPathFor(path)
	}
	if err := a.store.Save(out, lock); err != nil {
		return err
	}

	writeSummary(a.stdout, lock, out, opts.CI)
	return nil
}

// configFor opens every source the definition declares.
func (a *App) configFor(def *domain.PolicyDefinition, openOpts domain.OpenOptions) (compiler.Config, error) {
	cfg := compiler.Config{
		Name:               def.Name,
		Location:           def.Path,
		RunList:            def.RunList,
		NamedRunLists:      def.NamedRunLists,
		DefaultAttributes:  def.DefaultAttributes,
		OverrideAttributes: def.OverrideAttributes,
		Cookbooks:          def.Cookbooks,
	}

	if def.DefaultSource != nil {
		source, err := a.sources.Open(*def.DefaultSource, openOpts)
		if err != nil {
			return compiler.Config{}, zerr.Wrap(err, "failed to open default source")
		}
		cfg.Universe = source
	}

	cfg.Includes = make([]ports.IncludedPolicy, 0, len(def.Includes))
	for _, spec := range def.Includes {
		inc, err := a.includes.Open(spec, openOpts)
		if err != nil {
			return compiler.Config{}, zerr.With(zerr.Wrap(err, "failed to open included policy"), "policy", spec.Name)
		}
		cfg.Includes = append(cfg.Includes, inc)
	}

	return cfg, nil
}

// compile runs the compiler with its phases reported to a linear renderer.
func (a *App) compile(ctx context.Context, cfg compiler.Config, ci bool) (*domain.PolicyLock, error) {
	var renderer ports.Renderer
	if ci {
		renderer = linear.NewPlainRenderer(a.stdout, a.stderr)
	} else {
		renderer = linear.NewRenderer(a.stdout, a.stderr)
	}

	tp := setupOTel(telemetry.NewBridge(renderer))
	defer func() {
		_ = tp.ForceFlush(ctx)
		_ = tp.Shutdown(ctx)
	}()

	tracer := telemetry.NewOTelTracer(telemetry.InstrumentationName)
	lock, err := compiler.New(tracer).Compile(ctx, cfg)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCompileFailed.Error())
	}
	return lock, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All removes the whole .policy directory instead of only the caches.
	All bool
}

// Clean removes cached universes and included policy locks.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.All {
		remove(domain.PolicyDirName, "policy workspace")
		return errs
	}

	remove(domain.DefaultUniverseCachePath(), "universe cache")
	remove(domain.DefaultIncludesCachePath(), "included policy cache")

	return errs
}

// setupOTel registers a tracer provider that reports spans to the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}
