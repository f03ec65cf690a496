// Package store implements the content-addressed repository and
// environment cache: digest-keyed directories under $PREK_HOME, each
// "present" iff a JSON completion marker exists and parses, written last
// and atomically so a crash mid-clone or mid-install never leaves a
// directory that looks done but isn't.
package store

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmcarbo/prek/pkg/cache"
	"github.com/jmcarbo/prek/pkg/pkgerr"
)

// RepoRefKind distinguishes the tagged union of repository references.
type RepoRefKind int

const (
	RepoRemote RepoRefKind = iota
	RepoLocal
	RepoMeta
	RepoBuiltin
)

// RepoRef identifies a hook repository. Remote references carry the
// (url, rev, sorted dependencies) tuple that forms the store's cache key;
// Local/Meta/Builtin never touch the store.
type RepoRef struct {
	URL          string
	Rev          string
	Dependencies []string
	Kind         RepoRefKind
}

// canonical renders the reference's stable, order-independent form used
// for both the digest and the persisted marker's identity check.
func (r RepoRef) canonical() string {
	deps := append([]string(nil), r.Dependencies...)
	sort.Strings(deps)
	return r.URL + "\x00" + r.Rev + "\x00" + strings.Join(deps, ",")
}

// Digest returns the stable 16 hex-character key for a remote RepoRef.
// Collisions are treated as identical entries, as is safe: within one
// store a digest is only ever consulted against the marker it names, and
// a mismatched marker triggers delete-and-reclone rather than being
// silently trusted.
func Digest(r RepoRef) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.canonical()))
	sum := h.Sum64()
	full := fmt.Sprintf("%016x", sum)
	return full[:16]
}

// RepoMarker is the .prek-repo.json sidecar written once a clone
// completes, matched back against the requested RepoRef on every lookup.
type RepoMarker struct {
	URL          string   `json:"url"`
	Rev          string   `json:"rev"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// HookMarker is the .prek-hook.json sidecar (InstallInfo).
type HookMarker struct {
	Extras              map[string]string `json:"extras,omitempty"`
	EnvPath             string            `json:"env_path"`
	Language            string            `json:"language"`
	LanguageVersion     string            `json:"language_version"`
	Toolchain           string            `json:"toolchain"`
	EnvKeyDependencies  []string          `json:"env_key_dependencies"`
}

const (
	repoMarkerName = ".prek-repo.json"
	hookMarkerName = ".prek-hook.json"
)

// Store manages $PREK_HOME.
type Store struct {
	Root string
}

// Buckets under tools/ and cache/ named by the spec.
var ToolBuckets = []string{"uv", "python", "node", "go", "ruby", "rustup", "bun"}
var CacheBuckets = []string{"uv", "go", "python", "cargo", "prek"}

// Open resolves $PREK_HOME (falling back to $PRE_COMMIT_HOME per the
// compatibility shim, then XDG_CACHE_HOME/prek, then ~/.cache/prek),
// creates the directory skeleton, and returns a Store. shimUsed reports
// whether the PRE_COMMIT_HOME fallback fired, so the caller can emit the
// one-time informational diagnostic the compat shim requires.
func Open() (s *Store, shimUsed bool, err error) {
	root := os.Getenv("PREK_HOME")
	if root == "" {
		if legacy := os.Getenv("PRE_COMMIT_HOME"); legacy != "" {
			root = legacy
			shimUsed = true
		}
	}
	if root == "" {
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			root = filepath.Join(xdg, "prek")
		} else if home, herr := os.UserHomeDir(); herr == nil {
			root = filepath.Join(home, ".cache", "prek")
		} else {
			return nil, false, pkgerr.New(pkgerr.KindStore, herr)
		}
	}

	s = &Store{Root: root}
	for _, dir := range []string{"repos", "hooks", "tools", "cache", "scratch", "patches"} {
		if mkErr := os.MkdirAll(filepath.Join(root, dir), 0o750); mkErr != nil {
			return nil, shimUsed, pkgerr.New(pkgerr.KindStore, mkErr)
		}
	}
	for _, b := range ToolBuckets {
		_ = os.MkdirAll(filepath.Join(root, "tools", b), 0o750)
	}
	for _, b := range CacheBuckets {
		_ = os.MkdirAll(filepath.Join(root, "cache", b), 0o750)
	}
	return s, shimUsed, nil
}

// RepoDir returns the (not necessarily present) directory for a digest.
func (s *Store) RepoDir(digest string) string { return filepath.Join(s.Root, "repos", digest) }

// HookDir returns the (not necessarily present) directory for a digest.
func (s *Store) HookDir(digest string) string { return filepath.Join(s.Root, "hooks", digest) }

// ToolsPath returns the absolute path of a tools/<bucket> directory.
func (s *Store) ToolsPath(bucket string) string { return filepath.Join(s.Root, "tools", bucket) }

// CachePath returns the absolute path of a cache/<bucket> directory.
func (s *Store) CachePath(bucket string) string { return filepath.Join(s.Root, "cache", bucket) }

// PatchesDir returns the directory snapshot patches are written into.
func (s *Store) PatchesDir() string { return filepath.Join(s.Root, "patches") }

// NewScratchDir creates and returns a fresh, uniquely named directory
// under scratch/ for one invocation's temporary work (e.g. a clone
// destination before the atomic rename into repos/<digest>).
func (s *Store) NewScratchDir(prefix string) (string, error) {
	dir, err := os.MkdirTemp(filepath.Join(s.Root, "scratch"), prefix+"-")
	if err != nil {
		return "", pkgerr.New(pkgerr.KindStore, err)
	}
	return dir, nil
}

// Lock returns the store-wide advisory lock used for top-level add/remove
// mutations.
func (s *Store) Lock() *cache.FileLock {
	return cache.NewFileLock(s.Root)
}

// RepoPresent reports whether the repo digest's completion marker exists
// and parses, and if so returns it. A missing or corrupt marker means "not
// present" even if the directory itself exists (crash recovery).
func (s *Store) RepoPresent(digest string) (RepoMarker, bool) {
	var m RepoMarker
	data, err := os.ReadFile(filepath.Join(s.RepoDir(digest), repoMarkerName))
	if err != nil {
		return m, false
	}
	if json.Unmarshal(data, &m) != nil {
		return m, false
	}
	return m, true
}

// WriteRepoMarker atomically writes the completion marker for digest,
// using write-to-temp-then-rename so a concurrent reader never observes a
// partially written marker.
func (s *Store) WriteRepoMarker(digest string, m RepoMarker) error {
	return atomicWriteJSON(filepath.Join(s.RepoDir(digest), repoMarkerName), m)
}

// WriteMarkerAt atomically writes a repo completion marker inside an
// arbitrary directory, for callers (such as the legacy cache-manager-keyed
// repository cache) that manage their own directory layout but still want
// the store's "marker written last, atomically" crash-recovery invariant
// rather than trusting bare directory existence.
func WriteMarkerAt(dir string, m RepoMarker) error {
	return atomicWriteJSON(filepath.Join(dir, repoMarkerName), m)
}

// ReadMarkerAt reports whether dir holds a valid, parseable repo completion
// marker. A missing or corrupt marker reports not-present even if dir
// itself exists, so a crash mid-clone is never mistaken for a finished one.
func ReadMarkerAt(dir string) (RepoMarker, bool) {
	var m RepoMarker
	data, err := os.ReadFile(filepath.Join(dir, repoMarkerName))
	if err != nil {
		return m, false
	}
	if json.Unmarshal(data, &m) != nil {
		return m, false
	}
	return m, true
}

// HookPresent reports whether the hook environment digest's completion
// marker exists and parses.
func (s *Store) HookPresent(digest string) (HookMarker, bool) {
	var m HookMarker
	data, err := os.ReadFile(filepath.Join(s.HookDir(digest), hookMarkerName))
	if err != nil {
		return m, false
	}
	if json.Unmarshal(data, &m) != nil {
		return m, false
	}
	return m, true
}

// WriteHookMarker atomically writes the InstallInfo sidecar for digest.
func (s *Store) WriteHookMarker(digest string, m HookMarker) error {
	return atomicWriteJSON(filepath.Join(s.HookDir(digest), hookMarkerName), m)
}

func atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return pkgerr.New(pkgerr.KindStore, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return pkgerr.New(pkgerr.KindStore, err)
	}
	tmp, err := os.CreateTemp(dir, ".marker-*.tmp")
	if err != nil {
		return pkgerr.New(pkgerr.KindStore, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return pkgerr.New(pkgerr.KindStore, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return pkgerr.New(pkgerr.KindStore, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return pkgerr.New(pkgerr.KindStore, err)
	}
	return nil
}

// PromoteScratch atomically renames a finished scratch directory into its
// final digest-keyed location. Callers must write the completion marker
// only after this succeeds, and only as the very last step.
func (s *Store) PromoteScratch(scratch, finalDir string) error {
	if err := os.MkdirAll(filepath.Dir(finalDir), 0o750); err != nil {
		return pkgerr.New(pkgerr.KindStore, err)
	}
	if _, err := os.Stat(finalDir); err == nil {
		// Another process finished first; discard our scratch copy.
		_ = os.RemoveAll(scratch)
		return nil
	}
	if err := os.Rename(scratch, finalDir); err != nil {
		return pkgerr.New(pkgerr.KindStore, err)
	}
	return nil
}

// InstalledHookMarkers scans hooks/ for present environments, skipping
// entries whose marker is missing or invalid.
func (s *Store) InstalledHookMarkers() (map[string]HookMarker, error) {
	out := make(map[string]HookMarker)
	entries, err := os.ReadDir(filepath.Join(s.Root, "hooks"))
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, pkgerr.New(pkgerr.KindStore, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if m, ok := s.HookPresent(e.Name()); ok {
			out[e.Name()] = m
		}
	}
	return out, nil
}

// Clean removes every digest-keyed repo/hook directory and every tool
// download, returning the store to an empty-but-initialized state.
func (s *Store) Clean() error {
	for _, dir := range []string{"repos", "hooks", "tools", "cache"} {
		if err := os.RemoveAll(filepath.Join(s.Root, dir)); err != nil {
			return pkgerr.New(pkgerr.KindStore, err)
		}
	}
	_, _, err := Open()
	return err
}

// Size returns the total size in bytes of the store tree.
func (s *Store) Size() (int64, error) {
	var total int64
	err := filepath.Walk(s.Root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best-effort walk, skip unreadable entries
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, pkgerr.New(pkgerr.KindStore, err)
	}
	return total, nil
}

// NewPatchPath returns a fresh timestamped patch file path under patches/.
func NewPatchPath(root string, t time.Time) string {
	return filepath.Join(root, "patches", fmt.Sprintf("%d.patch", t.UnixNano()))
}

// hexDigestValid is a small sanity check used by callers reading a digest
// out of a directory name before trusting it.
func hexDigestValid(s string) bool {
	if len(s) != 16 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
