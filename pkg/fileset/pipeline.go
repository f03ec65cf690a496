package fileset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmcarbo/prek/pkg/config"
	"github.com/jmcarbo/prek/pkg/git"
	"github.com/jmcarbo/prek/pkg/hook/matching"
)

// Source selects which git state the initial file list is drawn from.
type Source int

const (
	// SourceStaged is the default: files staged for commit.
	SourceStaged Source = iota
	// SourceAll is every tracked file (--all-files).
	SourceAll
	// SourceRefRange is files changed between two refs (--from-ref/--to-ref).
	SourceRefRange
	// SourceLastCommit is the files touched by the most recent commit.
	SourceLastCommit
	// SourceExplicit is a caller-supplied file list.
	SourceExplicit
)

// Request describes one file-set computation.
type Request struct {
	Source      Source
	FromRef     string
	ToRef       string
	ExplicitSet []string
	// Deterministic sorts the final list when true (always on in tests);
	// otherwise it preserves the order git reported.
	Deterministic bool
}

// repoFiles abstracts the subset of git.Repository the pipeline needs, so
// tests can supply a fake without a real .git directory.
type repoFiles interface {
	GetStagedFiles() ([]string, error)
	GetAllFiles() ([]string, error)
	GetChangedFiles(fromRef, toRef string) ([]string, error)
	GetCommitFiles(commitRef string) ([]string, error)
}

var _ repoFiles = (*git.Repository)(nil)

// sourceSet resolves step (1): the initial source set of files.
func sourceSet(repo repoFiles, req Request) ([]string, error) {
	switch req.Source {
	case SourceAll:
		return repo.GetAllFiles()
	case SourceRefRange:
		return repo.GetChangedFiles(req.FromRef, req.ToRef)
	case SourceLastCommit:
		return repo.GetCommitFiles("HEAD")
	case SourceExplicit:
		return req.ExplicitSet, nil
	default:
		return repo.GetStagedFiles()
	}
}

// expandDirectories implements step (2): any entry in files that is
// itself a directory is replaced by every tracked file beneath it found
// in allTracked.
func expandDirectories(root string, files, allTracked []string) []string {
	var out []string
	for _, f := range files {
		abs := filepath.Join(root, f)
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			out = append(out, f)
			continue
		}
		prefix := strings.TrimSuffix(f, "/") + "/"
		for _, t := range allTracked {
			if strings.HasPrefix(t, prefix) {
				out = append(out, t)
			}
		}
	}
	return out
}

// scopeToProject implements step (3): drop files outside the project
// directory a hook belongs to, rewriting survivors to project-relative
// paths.
func scopeToProject(files []string, projectDir string) []string {
	if projectDir == "" || projectDir == "." {
		return files
	}
	prefix := strings.TrimSuffix(filepath.ToSlash(projectDir), "/") + "/"
	var out []string
	for _, f := range files {
		sf := filepath.ToSlash(f)
		if rel := strings.TrimPrefix(sf, prefix); rel != sf {
			out = append(out, rel)
		}
	}
	return out
}

// filterBySelectors implements step (4): narrow to files whose project
// matches at least one of the given selector raw strings (skip list is
// handled the same way, inverted, by the caller).
func filterBySelectors(files []string, match func(file string) bool) []string {
	if match == nil {
		return files
	}
	var out []string
	for _, f := range files {
		if match(f) {
			out = append(out, f)
		}
	}
	return out
}

// matchHookFilters implements step (5): the per-hook regex + type-tag AND
// of filters, against the file's tag set from tagger.
func matchHookFilters(m *matching.Matcher, tagger *Tagger, hook config.Hook, file string) bool {
	if !m.FileMatchesHook(file, hook) {
		return false
	}
	if len(hook.Types) == 0 && len(hook.TypesOr) == 0 && len(hook.ExcludeTypes) == 0 {
		return true
	}
	tags := tagger.Tag(file)
	return tags.HasAll(hook.Types) && tags.HasAny(hook.TypesOr) && tags.HasNone(hook.ExcludeTypes)
}

// Compute runs the full pipeline for one hook: source selection, directory
// expansion, workspace scoping, selector filtering, and per-hook filter
// intersection, finishing with step (6)'s deterministic sort.
func Compute(
	repo repoFiles,
	req Request,
	projectDir string,
	hook config.Hook,
	tagger *Tagger,
	selectorMatch func(file string) bool,
) ([]string, error) {
	base, err := sourceSet(repo, req)
	if err != nil {
		return nil, err
	}

	allTracked := base
	if req.Source != SourceAll {
		if all, err := repo.GetAllFiles(); err == nil {
			allTracked = all
		}
	}

	files := expandDirectories(tagger.root, base, allTracked)
	files = scopeToProject(files, projectDir)
	files = filterBySelectors(files, selectorMatch)

	m := matching.NewMatcher()
	var out []string
	for _, f := range files {
		if matchHookFilters(m, tagger, hook, f) {
			out = append(out, f)
		}
	}

	if req.Deterministic {
		sort.Strings(out)
	}
	return out, nil
}
