package fastpath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

func init() {
	register("check-json", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			code, out := RunConcurrentFileChecks(ctx, root, files, checkJSON)
			return code, out, nil
		},
	})
}

func checkJSON(root, relPath string) (int, []byte) {
	path := filepath.Join(root, relPath)
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	if err := checkNoDuplicateKeysJSON(data); err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	return 0, nil
}
