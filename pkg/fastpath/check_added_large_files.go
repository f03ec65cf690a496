package fastpath

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

func init() {
	register("check-added-large-files", Check{
		SupportsArgs: func(args []string) bool {
			for i := 0; i < len(args); i++ {
				a := args[i]
				switch {
				case a == "--enforce-all":
				case a == "--maxkb":
					i++
				case strings.HasPrefix(a, "--maxkb="):
				default:
					return false
				}
			}
			return true
		},
		Run: func(ctx context.Context, root string, files []string, args []string) (int, []byte, error) {
			enforceAll := false
			maxKB := uint64(500)
			for i := 0; i < len(args); i++ {
				a := args[i]
				switch {
				case a == "--enforce-all":
					enforceAll = true
				case a == "--maxkb" && i+1 < len(args):
					i++
					if v, err := strconv.ParseUint(args[i], 10, 64); err == nil {
						maxKB = v
					}
				case strings.HasPrefix(a, "--maxkb="):
					if v, err := strconv.ParseUint(strings.TrimPrefix(a, "--maxkb="), 10, 64); err == nil {
						maxKB = v
					}
				}
			}

			filtered := files
			if !enforceAll {
				added, err := gitAddedFiles(ctx, root)
				if err != nil {
					return 0, nil, err
				}
				addedSet := make(map[string]bool, len(added))
				for _, f := range added {
					addedSet[f] = true
				}
				filtered = filtered[:0:0]
				for _, f := range files {
					if addedSet[f] {
						filtered = append(filtered, f)
					}
				}
			}

			lfsFiles, err := gitLFSFiles(ctx, root, filtered)
			if err != nil {
				return 0, nil, err
			}
			if len(lfsFiles) > 0 {
				out := filtered[:0:0]
				for _, f := range filtered {
					if !lfsFiles[f] {
						out = append(out, f)
					}
				}
				filtered = out
			}

			code, out := RunConcurrentFileChecks(ctx, root, filtered, func(root, rel string) (int, []byte) {
				return checkAddedLargeFile(root, rel, maxKB)
			})
			return code, out, nil
		},
	})
}

func checkAddedLargeFile(root, relPath string, maxKB uint64) (int, []byte) {
	info, err := os.Stat(filepath.Join(root, relPath))
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	sizeKB := uint64(info.Size()) / 1024 //nolint:gosec
	if sizeKB > maxKB {
		return 1, []byte(fmt.Sprintf("%s (%d KB) exceeds %d KB\n", relPath, sizeKB, maxKB))
	}
	return 0, nil
}

// gitAddedFiles returns files staged as newly added (git diff --cached
// --diff-filter=A), matching pre-commit's notion of "added" files when
// --enforce-all is not passed.
func gitAddedFiles(ctx context.Context, root string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--name-only", "--diff-filter=A", "-z")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff --diff-filter=A: %w", err)
	}
	return splitNulTerminated(out), nil
}

// gitLFS queries `git lfs ls-files` to exclude LFS-tracked pointers from
// the large-file size check; absence of git-lfs is not an error.
func gitLFSFiles(ctx context.Context, root string, files []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(files) == 0 {
		return result, nil
	}
	cmd := exec.CommandContext(ctx, "git", "lfs", "ls-files", "-n")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return result, nil //nolint:nilerr // git-lfs not installed or not initialized
	}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result[line] = true
		}
	}
	return result, nil
}

func splitNulTerminated(b []byte) []string {
	s := strings.TrimRight(string(b), "\x00")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}
