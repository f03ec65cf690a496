package fastpath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

func init() {
	register("check-symlinks", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			code, out := RunConcurrentFileChecks(ctx, root, files, checkSymlinkFile)
			return code, out, nil
		},
	})
}

func checkSymlinkFile(root, relPath string) (int, []byte) {
	path := filepath.Join(root, relPath)
	info, err := os.Lstat(path)
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return 0, nil
	}
	if _, err := os.Stat(path); err != nil {
		return 1, []byte(fmt.Sprintf("%s: Broken symlink\n", relPath))
	}
	return 0, nil
}
