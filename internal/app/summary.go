package app

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/policy/internal/core/domain"
	"go.trai.ch/policy/internal/ui/output"
	"go.trai.ch/policy/internal/ui/style"
)

// writeSummary prints the compiled policy and its cookbook versions.
func writeSummary(w io.Writer, lock *domain.PolicyLock, lockPath string, plain bool) {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(output.ColorProfileNone())
	} else {
		r.SetColorProfile(output.ColorProfile())
	}

	check := r.NewStyle().Foreground(style.Green).Render(style.Check)
	title := r.NewStyle().Bold(true).Foreground(style.Iris).Render(lock.Name)
	muted := r.NewStyle().Foreground(style.Slate)

	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "%s Compiled %s %s\n", check, title, muted.Render("→ "+lockPath))
	_, _ = fmt.Fprintf(&b, "  %s\n", muted.Render("revision "+lock.RevisionID))

	names := slices.Sorted(maps.Keys(lock.CookbookLocks))
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	nameStyle := r.NewStyle().Width(width + 2)
	for _, name := range names {
		_, _ = fmt.Fprintf(&b, "  %s%s\n", nameStyle.Render(name), lock.CookbookLocks[name].Version)
	}

	_, _ = io.WriteString(w, b.String())
}
