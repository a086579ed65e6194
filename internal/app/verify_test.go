package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/policy/internal/app"
	"go.trai.ch/policy/internal/core/domain"
	"go.uber.org/mock/gomock"
)

func TestApp_Verify(t *testing.T) {
	a, deps := newTestApp(t)
	lock := compileTestPolicy(t, a, deps)

	deps.store.EXPECT().Load("app.lock.json").Return(lock, nil)
	deps.logger.EXPECT().Info("app.lock.json is reproducible at revision " + lock.RevisionID)

	err := a.Verify(context.Background(), app.VerifyOptions{LockPath: "app.lock.json", CI: true})
	require.NoError(t, err)
}

func TestApp_Verify_DefaultPath(t *testing.T) {
	a, deps := newTestApp(t)
	deps.store.EXPECT().Load("policy.lock.json").Return(nil, errors.New("missing"))

	err := a.Verify(context.Background(), app.VerifyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestApp_Verify_NotReproducible(t *testing.T) {
	a, deps := newTestApp(t)
	lock := &domain.PolicyLock{
		Name:    "app",
		RunList: domain.RunList{domain.NewRunListItem("local", "")},
		CookbookLocks: map[string]domain.CookbookLock{
			"local": {Version: "1.0.0", SourceOptions: map[string]string{}},
		},
		DefaultAttributes:  domain.AttributeTree{},
		OverrideAttributes: domain.AttributeTree{},
		Solution: domain.SolutionDependencies{
			Dependencies: map[string][]domain.Dependency{
				"local (1.0.0)": {{Name: "missing", Requirement: ">= 1.0.0"}},
			},
		},
	}
	deps.store.EXPECT().Load(gomock.Any()).Return(lock, nil)

	err := a.Verify(context.Background(), app.VerifyOptions{LockPath: "app.lock.json", CI: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrLockNotReproducible.Error())
}

func TestDiffLocks(t *testing.T) {
	base := &domain.PolicyLock{
		Name:    "app",
		RunList: domain.RunList{domain.NewRunListItem("local", "")},
		CookbookLocks: map[string]domain.CookbookLock{
			"local": {Version: "1.0.0"},
		},
		DefaultAttributes:  domain.AttributeTree{"port": 8080.0},
		OverrideAttributes: domain.AttributeTree{},
	}

	tests := []struct {
		name   string
		mutate func(l *domain.PolicyLock)
		want   []string
	}{
		{name: "Identical", mutate: func(*domain.PolicyLock) {}, want: nil},
		{
			name: "RunList",
			mutate: func(l *domain.PolicyLock) {
				l.RunList = append(l.RunList, domain.NewRunListItem("local", "extra"))
			},
			want: []string{"run_list"},
		},
		{
			name: "CookbookLocksAndAttributes",
			mutate: func(l *domain.PolicyLock) {
				l.CookbookLocks = map[string]domain.CookbookLock{"local": {Version: "1.0.1"}}
				l.OverrideAttributes = domain.AttributeTree{"debug": true}
			},
			want: []string{"cookbook_locks", "override_attributes"},
		},
		{
			name: "RevisionIgnored",
			mutate: func(l *domain.PolicyLock) {
				l.RevisionID = "other"
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := *base
			got.RunList = append(domain.RunList(nil), base.RunList...)
			tt.mutate(&got)

			mismatched, err := app.DiffLocks(base, &got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mismatched)
		})
	}
}
