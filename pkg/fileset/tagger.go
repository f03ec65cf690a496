// Package fileset computes the set of files a hook should see: resolving
// the git-state source set, expanding directories, scoping to a hook's
// project, and intersecting the regex/type-tag filters — and tags
// individual paths with the file/directory/symlink/executable/text/
// binary/language tags the filters match against.
package fileset

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/jmcarbo/prek/pkg/hook/matching"
)

// TagSet is the set of tags a path carries.
type TagSet map[string]bool

// Has reports whether t contains every tag in want.
func (t TagSet) HasAll(want []string) bool {
	for _, w := range want {
		if !t[w] {
			return false
		}
	}
	return true
}

// HasAny reports whether t contains at least one tag in want. An empty
// want list is vacuously satisfied (no types_or filter configured).
func (t TagSet) HasAny(want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		if t[w] {
			return true
		}
	}
	return false
}

// HasNone reports whether t contains none of the tags in avoid.
func (t TagSet) HasNone(avoid []string) bool {
	for _, a := range avoid {
		if t[a] {
			return false
		}
	}
	return true
}

// Tagger maps repository-relative paths to their tag sets.
type Tagger struct {
	matcher *matching.Matcher
	root    string
}

// NewTagger creates a Tagger rooted at repoRoot.
func NewTagger(repoRoot string) *Tagger {
	return &Tagger{matcher: matching.NewMatcher(), root: repoRoot}
}

// binarySniffLen is how much of a file's head is read to decide "binary".
const binarySniffLen = 8192

// Tag inspects the filesystem entry at relPath (joined with the tagger's
// root) and returns its full tag set. A path that no longer exists on
// disk (e.g. a file deleted in the working tree but still present in the
// git state being matched) still gets its path-derived tags.
func (t *Tagger) Tag(relPath string) TagSet {
	tags := TagSet{"file": true}
	abs := filepath.Join(t.root, relPath)

	info, err := os.Lstat(abs)
	switch {
	case err != nil:
		// Nonexistent: fall back to path-only classification.
	case info.Mode()&os.ModeSymlink != 0:
		tags["symlink"] = true
		delete(tags, "file")
		if target, statErr := os.Stat(abs); statErr == nil && target.IsDir() {
			tags["directory"] = true
		}
	case info.IsDir():
		delete(tags, "file")
		tags["directory"] = true
	default:
		if isExecutable(info.Mode()) {
			tags["executable"] = true
		}
		if isBinaryFile(abs) {
			tags["binary"] = true
		} else {
			tags["text"] = true
		}
	}

	ext := filepath.Ext(relPath)
	fileName := filepath.Base(relPath)
	for name, matches := range t.matcher.TypeMatchers() {
		if matches(ext, fileName, relPath) {
			tags[name] = true
		}
	}
	return tags
}

func isExecutable(mode os.FileMode) bool {
	return mode&0o111 != 0
}

func isBinaryFile(path string) bool {
	f, err := os.Open(path) // #nosec G304 -- path is derived from a previously enumerated repo file
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck

	buf := make([]byte, binarySniffLen)
	n, _ := f.Read(buf)
	return bytes.IndexByte(buf[:n], 0) != -1
}
