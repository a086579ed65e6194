package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/policy/internal/adapters/logger"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(l *logger.Logger) { l.Info("wrote app.lock.json") },
			goldenName: "info_basic",
		},
		{
			name:       "warn",
			log:        func(l *logger.Logger) { l.Warn("universe cache unavailable, fetching directly") },
			goldenName: "warn_basic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name: "zerr chain with metadata",
			err: zerr.With(
				zerr.Wrap(errors.New("connection refused"), "failed to fetch cookbook universe"),
				"url", "https://supermarket.example/universe",
			),
			goldenName: "error_chain_metadata",
		},
		{
			name: "multi-line cause",
			err: zerr.Wrap(&domain.UnsatisfiableConstraintsError{
				Conflicts: []domain.CookbookConflict{{
					Cookbook: "cookbookC",
					Constraints: []domain.Constraint{
						{Name: "cookbookC", Requirement: domain.MustParseRequirement("= 2.0.0"), Source: "included policy a (local: a.lock.json)"},
						{Name: "cookbookC", Requirement: domain.MustParseRequirement("= 1.0.0"), Source: "local-1.0.0"},
					},
				}},
			}, "policy compile failed"),
			goldenName: "error_unsatisfiable",
		},
		{
			name:       "metadata on standard error",
			err:        zerr.With(errors.New("boom"), "path", "policy.yml"),
			goldenName: "error_stdlib_metadata",
		},
		{
			name:       "stdlib chain",
			err:        fmt.Errorf("failed to save lock: %w", errors.New("disk full")),
			goldenName: "error_stdlib_chain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.With(zerr.Wrap(errors.New("no such file"), "failed to read policy file"), "path", "policy.yml"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"failed to read policy file: no such file"`)
	assert.Contains(t, out, `"path":"policy.yml"`)
	assert.NotContains(t, out, "✗")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetJSON(true)
	lg.Info("json line")
	require.Contains(t, buf.String(), `"msg":"json line"`)

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("pretty line")
	assert.Equal(t, "pretty line\n", buf.String())
}

func TestLogger_SetOutputPreservesFormat(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	other := &bytes.Buffer{}
	lg.SetOutput(other)
	lg.Warn("switched")
	assert.Contains(t, other.String(), `"level":"WARN"`)
}
