// Package workspace discovers the set of projects rooted under a
// directory and resolves the CLI-visible selector strings that narrow a
// run down to specific projects or hooks within them.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/jmcarbo/prek/pkg/config"
)

// Project is a directory containing one recognized config file.
type Project struct {
	Dir        string
	ConfigPath string
	Config     *config.Config
}

// Workspace is the rooted set of discovered projects.
type Workspace struct {
	Root     string
	Projects []Project
}

// Discover walks downward from root, honoring .gitignore, and collects
// every directory that contains a recognized config file. It does not
// descend into a project directory looking for nested ones — nested
// projects are only visited if a selector explicitly targets them (see
// DiscoverWithSelectors).
func Discover(root string) (*Workspace, error) {
	return discover(root, nil)
}

// DiscoverWithSelectors behaves like Discover but also descends into
// already-found project directories when a selector's path component
// could name a project nested beneath one already collected.
func DiscoverWithSelectors(root string, selectors []string) (*Workspace, error) {
	return discover(root, selectors)
}

func discover(root string, selectors []string) (*Workspace, error) {
	ig, err := loadGitignore(root)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{Root: root}
	wantsNested := nestedSearchRoots(selectors)

	var walk func(dir string, insideProject bool) error
	walk = func(dir string, insideProject bool) error {
		if ig.matches(dir) {
			return nil
		}
		if cfgPath := config.FindProjectConfig(dir); cfgPath != "" {
			ws.Projects = append(ws.Projects, Project{Dir: dir, ConfigPath: cfgPath})
			if !insideProject || wantsNested[dir] {
				insideProject = true
			} else {
				return nil
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil //nolint:nilerr // unreadable subdirectories are silently skipped
		}
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".git") {
				continue
			}
			sub := filepath.Join(dir, e.Name())
			if ig.matches(sub) {
				continue
			}
			if err := walk(sub, insideProject); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, false); err != nil {
		return nil, err
	}

	sort.Slice(ws.Projects, func(i, j int) bool { return ws.Projects[i].Dir < ws.Projects[j].Dir })
	return ws, nil
}

// nestedSearchRoots extracts directory components from path-shaped
// selectors so Discover knows which already-matched project dirs it
// should still search beneath.
func nestedSearchRoots(selectors []string) map[string]bool {
	out := make(map[string]bool)
	for _, s := range selectors {
		sel := Classify(s)
		if sel.ProjectPath != "" {
			out[sel.ProjectPath] = true
		}
	}
	return out
}

// gitignoreMatcher filters the workspace walk using the root .gitignore,
// parsed with the same pattern engine git itself uses (wildcards,
// directory anchors, and `!` negation all behave like real git), so a
// project's own ignore rules for things like `vendor/` or `node_modules/`
// are honored exactly rather than approximated.
type gitignoreMatcher struct {
	root    string
	matcher gitignore.Matcher
}

func loadGitignore(root string) (*gitignoreMatcher, error) {
	m := &gitignoreMatcher{root: root}
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	m.matcher = gitignore.NewMatcher(patterns)
	return m, nil
}

func (m *gitignoreMatcher) matches(dir string) bool {
	if m.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(m.root, dir)
	if err != nil || rel == "." {
		return false
	}
	return m.matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), true)
}
