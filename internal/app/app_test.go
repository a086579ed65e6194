package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/policy/internal/adapters/universe"
	"go.trai.ch/policy/internal/app"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	loader   *mocks.MockPolicyLoader
	includes *mocks.MockIncludedPolicyFactory
	sources  *mocks.MockUniverseSourceFactory
	store    *mocks.MockLockStore
	logger   *mocks.MockLogger
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newTestApp(t *testing.T) (*app.App, *testDeps) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	deps := &testDeps{
		loader:   mocks.NewMockPolicyLoader(ctrl),
		includes: mocks.NewMockIncludedPolicyFactory(ctrl),
		sources:  mocks.NewMockUniverseSourceFactory(ctrl),
		store:    mocks.NewMockLockStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		stdout:   new(bytes.Buffer),
		stderr:   new(bytes.Buffer),
	}

	a := app.New(deps.loader, deps.includes, deps.sources, deps.store, deps.logger).
		WithOutput(deps.stdout, deps.stderr)
	return a, deps
}

func testGraph() domain.UniverseGraph {
	return domain.UniverseGraph{
		"local": {
			"1.0.0": {{Name: "remote", Requirement: ">= 1.0.0"}},
		},
		"remote": {
			"1.0.0": {},
			"1.1.0": {},
		},
	}
}

func testDefinition(path string) *domain.PolicyDefinition {
	return &domain.PolicyDefinition{
		Name:              "app",
		Path:              path,
		DefaultSource:     &domain.SourceSpec{Inline: testGraph()},
		RunList:           domain.RunList{domain.NewRunListItem("local", "")},
		DefaultAttributes: domain.AttributeTree{"app": map[string]any{"port": 8080.0}},
		OverrideAttributes: domain.AttributeTree{
			"app": map[string]any{"debug": false},
		},
	}
}

// compileTestPolicy compiles testDefinition and returns the saved lock.
func compileTestPolicy(t *testing.T, a *app.App, deps *testDeps) *domain.PolicyLock {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yml")
	def := testDefinition(path)

	deps.loader.EXPECT().Load(path).Return(def, nil)
	deps.sources.EXPECT().Open(*def.DefaultSource, domain.OpenOptions{BaseDir: dir}).
		Return(universe.NewInlineSource(testGraph()), nil)

	var saved *domain.PolicyLock
	deps.store.EXPECT().Save(filepath.Join(dir, "app.lock.json"), gomock.Any()).
		DoAndReturn(func(_ string, lock *domain.PolicyLock) error {
			saved = lock
			return nil
		})

	err := a.Compile(context.Background(), app.CompileOptions{PolicyPath: path, CI: true})
	require.NoError(t, err)
	require.NotNil(t, saved)
	return saved
}

func TestApp_Compile(t *testing.T) {
	a, deps := newTestApp(t)
	lock := compileTestPolicy(t, a, deps)

	assert.Equal(t, "app", lock.Name)
	assert.NotEmpty(t, lock.RevisionID)
	assert.Equal(t, "1.0.0", lock.CookbookLocks["local"].Version)
	assert.Equal(t, "1.1.0", lock.CookbookLocks["remote"].Version)

	assert.Contains(t, deps.stdout.String(), "Compiled app")
	assert.Contains(t, deps.stdout.String(), "revision "+lock.RevisionID)
	assert.Contains(t, deps.stdout.String(), "local   1.0.0")
	assert.Contains(t, deps.stdout.String(), "remote  1.1.0")

	assert.Contains(t, deps.stderr.String(), "[solve] ✓ Completed")
	assert.NotContains(t, deps.stderr.String(), "\x1b[")
}

func TestApp_Compile_OutputPath(t *testing.T) {
	a, deps := newTestApp(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yml")
	out := filepath.Join(dir, "out", "custom.json")
	def := testDefinition(path)

	deps.loader.EXPECT().Load(path).Return(def, nil)
	deps.sources.EXPECT().Open(gomock.Any(), domain.OpenOptions{BaseDir: dir, NoCache: true}).
		Return(universe.NewInlineSource(testGraph()), nil)
	deps.store.EXPECT().Save(out, gomock.Any()).Return(nil)

	err := a.Compile(context.Background(), app.CompileOptions{PolicyPath: path, OutputPath: out, NoCache: true, CI: true})
	require.NoError(t, err)
	assert.Contains(t, deps.stdout.String(), out)
}

func TestApp_Compile_Includes(t *testing.T) {
	a, deps := newTestApp(t)
	base := compileTestPolicy(t, a, deps)

	dir := t.TempDir()
	path := filepath.Join(dir, "combo.yml")
	spec := domain.IncludeSpec{Name: "base", Local: "base.lock.json"}
	def := &domain.PolicyDefinition{Name: "combo", Path: path, Includes: []domain.IncludeSpec{spec}}

	inc := mocks.NewMockIncludedPolicy(gomock.NewController(t))
	inc.EXPECT().Name().Return("base").AnyTimes()
	inc.EXPECT().SourceOptions().Return(map[string]string{"local": "base.lock.json"}).AnyTimes()
	inc.EXPECT().Valid().Return(true).AnyTimes()
	inc.EXPECT().EnsureCached(gomock.Any()).Return(nil)
	inc.EXPECT().LockData(gomock.Any()).Return(base, nil)

	deps.loader.EXPECT().Load(path).Return(def, nil)
	deps.includes.EXPECT().Open(spec, domain.OpenOptions{BaseDir: dir}).Return(inc, nil)

	var saved *domain.PolicyLock
	deps.store.EXPECT().Save(filepath.Join(dir, "combo.lock.json"), gomock.Any()).
		DoAndReturn(func(_ string, lock *domain.PolicyLock) error {
			saved = lock
			return nil
		})

	err := a.Compile(context.Background(), app.CompileOptions{PolicyPath: path, CI: true})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, base.RunList, saved.RunList)
	assert.Equal(t, base.CookbookLocks, saved.CookbookLocks)
	require.Len(t, saved.IncludedPolicies, 1)
	assert.Equal(t, base.RevisionID, saved.IncludedPolicies[0].RevisionID)
	assert.Contains(t, deps.stdout.String(), "[fetch] included policy base (local: base.lock.json) at revision "+base.RevisionID)
}

func TestApp_Compile_Errors(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(deps *testDeps, path string)
		wantErr string
	}{
		{
			name: "LoadFails",
			setup: func(deps *testDeps, path string) {
				deps.loader.EXPECT().Load(path).Return(nil, errBoom)
			},
			wantErr: "failed to load policy",
		},
		{
			name: "SourceFails",
			setup: func(deps *testDeps, path string) {
				deps.loader.EXPECT().Load(path).Return(testDefinition(path), nil)
				deps.sources.EXPECT().Open(gomock.Any(), gomock.Any()).Return(nil, errBoom)
			},
			wantErr: "failed to open default source",
		},
		{
			name: "IncludeFails",
			setup: func(deps *testDeps, path string) {
				def := testDefinition(path)
				def.DefaultSource = nil
				def.Includes = []domain.IncludeSpec{{Name: "base", Remote: "https://example.com/base.lock.json"}}
				deps.loader.EXPECT().Load(path).Return(def, nil)
				deps.includes.EXPECT().Open(gomock.Any(), gomock.Any()).Return(nil, errBoom)
			},
			wantErr: "failed to open included policy",
		},
		{
			name: "EmptyPolicy",
			setup: func(deps *testDeps, path string) {
				deps.loader.EXPECT().Load(path).Return(&domain.PolicyDefinition{Name: "app", Path: path}, nil)
			},
			wantErr: domain.ErrEmptyPolicy.Error(),
		},
		{
			name: "Unsatisfiable",
			setup: func(deps *testDeps, path string) {
				def := testDefinition(path)
				def.Cookbooks = []domain.Constraint{{Name: "remote", Requirement: domain.MustParseRequirement("= 2.0.0")}}
				deps.loader.EXPECT().Load(path).Return(def, nil)
				deps.sources.EXPECT().Open(gomock.Any(), gomock.Any()).Return(universe.NewInlineSource(testGraph()), nil)
			},
			wantErr: domain.ErrUnsatisfiableConstraints.Error(),
		},
		{
			name: "SaveFails",
			setup: func(deps *testDeps, path string) {
				deps.loader.EXPECT().Load(path).Return(testDefinition(path), nil)
				deps.sources.EXPECT().Open(gomock.Any(), gomock.Any()).Return(universe.NewInlineSource(testGraph()), nil)
				deps.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errBoom)
			},
			wantErr: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, deps := newTestApp(t)
			path := filepath.Join(t.TempDir(), "app.yml")
			tt.setup(deps, path)

			err := a.Compile(context.Background(), app.CompileOptions{PolicyPath: path, CI: true})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApp_Compile_ConflictIsTyped(t *testing.T) {
	a, deps := newTestApp(t)
	path := filepath.Join(t.TempDir(), "app.yml")
	def := testDefinition(path)
	def.Cookbooks = []domain.Constraint{{Name: "remote", Requirement: domain.MustParseRequirement("= 2.0.0")}}

	deps.loader.EXPECT().Load(path).Return(def, nil)
	deps.sources.EXPECT().Open(gomock.Any(), gomock.Any()).Return(universe.NewInlineSource(testGraph()), nil)

	err := a.Compile(context.Background(), app.CompileOptions{PolicyPath: path, CI: true})

	var unsat *domain.UnsatisfiableConstraintsError
	require.ErrorAs(t, err, &unsat)
	assert.Contains(t, err.Error(), domain.ErrCompileFailed.Error())
	assert.Contains(t, deps.stderr.String(), "[solve] ✗ Failed")
}

func TestApp_Clean(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		if errChdir := os.Chdir(cwd); errChdir != nil {
			t.Fatalf("Failed to restore working directory: %v", errChdir)
		}
	})
	require.NoError(t, os.Chdir(t.TempDir()))

	for _, dir := range []string{domain.DefaultUniverseCachePath(), domain.DefaultIncludesCachePath()} {
		require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "entry.json"), []byte("{}"), domain.FilePerm))
	}
	keep := filepath.Join(domain.PolicyDirName, "keep")
	require.NoError(t, os.WriteFile(keep, []byte("x"), domain.FilePerm))

	a, deps := newTestApp(t)
	deps.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	require.NoError(t, a.Clean(context.Background(), app.CleanOptions{}))
	assert.NoDirExists(t, domain.DefaultUniverseCachePath())
	assert.NoDirExists(t, domain.DefaultIncludesCachePath())
	assert.FileExists(t, keep)

	require.NoError(t, a.Clean(context.Background(), app.CleanOptions{All: true}))
	assert.NoDirExists(t, domain.PolicyDirName)
}
