package fastpath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func init() {
	register("fix-byte-order-marker", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			code, out := RunConcurrentFileChecks(ctx, root, files, fixByteOrderMarker)
			return code, out, nil
		},
	})
}

// fixByteOrderMarker removes a leading UTF-8 BOM if present. Idempotent:
// a file without one is left untouched.
func fixByteOrderMarker(root, relPath string) (int, []byte) {
	path := filepath.Join(root, relPath)
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	if len(data) < 3 || data[0] != utf8BOM[0] || data[1] != utf8BOM[1] || data[2] != utf8BOM[2] {
		return 0, nil
	}
	if err := os.WriteFile(path, data[3:], 0o644); err != nil { //nolint:gosec // matches source file's own mode
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	return 1, []byte(fmt.Sprintf("Fixing %s\n", relPath))
}
