package fastpath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

func init() {
	register("check-toml", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			code, out := RunConcurrentFileChecks(ctx, root, files, checkTOML)
			return code, out, nil
		},
	})
}

func checkTOML(root, relPath string) (int, []byte) {
	path := filepath.Join(root, relPath)
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	var v any
	if _, err := toml.Decode(string(data), &v); err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	return 0, nil
}
