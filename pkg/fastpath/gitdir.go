package fastpath

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveGitDir returns the .git directory for root, following the
// "gitdir: <path>" pointer file used by worktrees and submodules.
func resolveGitDir(root string) (string, error) {
	p := filepath.Join(root, ".git")
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return p, nil
	}

	data, err := os.ReadFile(p) // #nosec G304 -- fixed relative path under the repo root
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	line = strings.TrimPrefix(line, "gitdir: ")
	if !filepath.IsAbs(line) {
		line = filepath.Join(root, line)
	}
	return line, nil
}
