package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.trai.ch/policy/internal/adapters/includes"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/core/ports"
	"go.trai.ch/policy/internal/engine/compiler"
	"go.trai.ch/zerr"
)

// VerifyOptions configuration for the Verify method.
type VerifyOptions struct {
	// LockPath is the lock to check. Defaults to policy.lock.json.
	LockPath string
	CI       bool
}

// Verify recompiles a lock with itself as the only included policy and checks that
// the run list, the cookbook locks and both attribute trees come out unchanged.
func (a *App) Verify(ctx context.Context, opts VerifyOptions) error {
	path := opts.LockPath
	if path == "" {
		path = domain.LockPathFor(domain.PolicyFileName)
	}

	lock, err := a.store.Load(path)
	if err != nil {
		return err
	}

	cfg := compiler.Config{
		Name:     lock.Name,
		Location: path,
		Includes: []ports.IncludedPolicy{
			includes.NewLoadedPolicy(lock.Name, map[string]string{"local": path}, lock),
		},
	}

	recompiled, err := a.compile(ctx, cfg, opts.CI)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockNotReproducible.Error()), "lock", path)
	}

	mismatched, err := diffLocks(lock, recompiled)
	if err != nil {
		return err
	}
	if len(mismatched) > 0 {
		notReproducible := zerr.With(domain.ErrLockNotReproducible, "lock", path)
		return zerr.With(notReproducible, "fields", strings.Join(mismatched, ", "))
	}

	a.logger.Info(fmt.Sprintf("%s is reproducible at revision %s", path, lock.RevisionID))
	return nil
}

// diffLocks returns the names of the reproducible fields that differ.
// Fields are compared by their JSON encoding so decoded and merged values compare equal.
func diffLocks(want, got *domain.PolicyLock) ([]string, error) {
	fields := []struct {
		name      string
		want, got any
	}{
		{name: "run_list", want: want.RunList, got: got.RunList},
		{name: "cookbook_locks", want: want.CookbookLocks, got: got.CookbookLocks},
		{name: "default_attributes", want: want.DefaultAttributes, got: got.DefaultAttributes},
		{name: "override_attributes", want: want.OverrideAttributes, got: got.OverrideAttributes},
	}

	var mismatched []string
	for _, f := range fields {
		wantJSON, err := json.Marshal(f.want)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrLockMarshalFailed.Error())
		}
		gotJSON, err := json.Marshal(f.got)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrLockMarshalFailed.Error())
		}
		if !bytes.Equal(wantJSON, gotJSON) {
			mismatched = append(mismatched, f.name)
		}
	}
	return mismatched, nil
}
