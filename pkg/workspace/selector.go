package workspace

import (
	"path/filepath"
	"strings"
)

// Selector is a parsed, classified CLI-visible targeting string. It
// matches one of: "<id>", "<project-path>", "<project-path>/<id>",
// "<project-path>::<id>", or a glob over any of those forms.
type Selector struct {
	Raw         string
	ProjectPath string
	HookID      string
	IsGlob      bool
	// matched is set by Match once the selector has accounted for at
	// least one hook, so Unused can report selectors that never hit.
	matched bool
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// Classify parses a raw selector string into its components without
// resolving it against any actual projects.
func Classify(raw string) *Selector {
	s := &Selector{Raw: raw, IsGlob: isGlob(raw)}

	if idx := strings.Index(raw, "::"); idx >= 0 {
		s.ProjectPath = raw[:idx]
		s.HookID = raw[idx+2:]
		return s
	}
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		// "<project-path>/<id>": only split if what follows the final
		// slash looks like a hook id rather than part of a directory
		// path glob (a trailing slash or glob chars after it mean the
		// whole thing is a project-path pattern instead).
		head, tail := raw[:idx], raw[idx+1:]
		if tail != "" && !isGlob(tail) {
			s.ProjectPath = head
			s.HookID = tail
			return s
		}
	}
	// Bare string: could name a hook id or a project path; both are
	// tried by Match.
	s.HookID = raw
	s.ProjectPath = raw
	return s
}

// Match reports whether this selector targets the given project dir and
// hook id, marking itself as having matched at least once when it does.
func (s *Selector) Match(projectDir, hookID string) bool {
	hit := false
	switch {
	case s.ProjectPath != "" && s.HookID != "" && s.Raw != s.ProjectPath && strings.Contains(s.Raw, s.HookID):
		hit = pathMatch(s.ProjectPath, projectDir, s.IsGlob) && hookMatch(s.HookID, hookID, s.IsGlob)
	default:
		hit = (s.HookID != "" && hookMatch(s.HookID, hookID, s.IsGlob)) ||
			(s.ProjectPath != "" && pathMatch(s.ProjectPath, projectDir, s.IsGlob))
	}
	if hit {
		s.matched = true
	}
	return hit
}

// Matched reports whether Match ever returned true for this selector.
func (s *Selector) Matched() bool { return s.matched }

// MatchesProject reports whether this selector could target the given
// project directory, independent of any specific hook ID. It's a coarser
// pre-filter used to decide which discovered projects to even consider;
// the per-hook Match call still determines whether a selector counts as
// having hit anything for Unused's reporting.
func (s *Selector) MatchesProject(projectDir string) bool {
	if s.ProjectPath == "" {
		return false
	}
	return pathMatch(s.ProjectPath, projectDir, s.IsGlob)
}

func hookMatch(pattern, id string, glob bool) bool {
	if !glob {
		return pattern == id
	}
	ok, _ := filepath.Match(pattern, id)
	return ok
}

func pathMatch(pattern, dir string, glob bool) bool {
	if !glob {
		return pattern == dir || strings.HasSuffix(dir, "/"+pattern) || filepath.Base(dir) == pattern
	}
	ok, _ := filepath.Match(pattern, dir)
	if ok {
		return true
	}
	ok, _ = filepath.Match(pattern, filepath.Base(dir))
	return ok
}

// Unused returns the selectors among sels that never matched any hook,
// for the "selector never hit anything" completion report.
func Unused(sels []*Selector) []string {
	var out []string
	for _, s := range sels {
		if !s.Matched() {
			out = append(out, s.Raw)
		}
	}
	return out
}
