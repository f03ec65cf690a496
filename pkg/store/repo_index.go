package store

import (
	"path/filepath"

	"github.com/jmcarbo/prek/pkg/cache"
	"github.com/jmcarbo/prek/pkg/config"
)

// RepoIndex is a secondary, query-friendly index over the store's remote
// repositories, backed by the cache package's SQLite database. The JSON
// markers in repos/<digest>/ remain the single source of truth for
// presence and identity (they're what crash recovery and the atomicity
// invariant care about); this index exists purely so commands like
// "which repos do I have cached" don't have to stat and parse every
// marker in the store, mirroring the role Python pre-commit's own db.db
// plays alongside its directory layout.
type RepoIndex struct {
	mgr *cache.Manager
}

// OpenRepoIndex opens (creating if necessary) the SQLite-backed index
// rooted at the store's cache/prek bucket.
func OpenRepoIndex(s *Store) (*RepoIndex, error) {
	dir := filepath.Join(s.CachePath("prek"), "index")
	mgr, err := cache.NewManager(dir)
	if err != nil {
		return nil, err
	}
	return &RepoIndex{mgr: mgr}, nil
}

func asConfigRepo(ref RepoRef) config.Repo {
	return config.Repo{Repo: ref.URL, Rev: ref.Rev}
}

// Record stores digest under the repo's canonical (url, rev, deps) key so
// future lookups can skip the digest computation entirely. The manager's
// "path" column is repurposed to hold the digest string rather than a
// clone path, since digests ARE the store's path keys.
func (ri *RepoIndex) Record(ref RepoRef, digest string) error {
	return ri.mgr.UpdateRepoEntryWithDeps(asConfigRepo(ref), ref.Dependencies, digest)
}

// Lookup returns the digest previously recorded for ref, if any.
func (ri *RepoIndex) Lookup(ref RepoRef) (string, bool) {
	digest := ri.mgr.GetRepoPathWithDeps(asConfigRepo(ref), ref.Dependencies)
	if digest == "" || !hexDigestValid(filepath.Base(digest)) {
		return "", false
	}
	return digest, true
}

// Close releases the underlying database handle.
func (ri *RepoIndex) Close() error { return ri.mgr.Close() }
