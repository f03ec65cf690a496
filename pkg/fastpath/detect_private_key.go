package fastpath

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var privateKeyBlacklist = [][]byte{
	[]byte("BEGIN RSA PRIVATE KEY"),
	[]byte("BEGIN DSA PRIVATE KEY"),
	[]byte("BEGIN EC PRIVATE KEY"),
	[]byte("BEGIN OPENSSH PRIVATE KEY"),
	[]byte("BEGIN PRIVATE KEY"),
	[]byte("PuTTY-User-Key-File-2"),
	[]byte("BEGIN SSH2 ENCRYPTED PRIVATE KEY"),
	[]byte("BEGIN PGP PRIVATE KEY BLOCK"),
	[]byte("BEGIN ENCRYPTED PRIVATE KEY"),
	[]byte("BEGIN OpenVPN Static key V1"),
}

func init() {
	register("detect-private-key", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			code, out := RunConcurrentFileChecks(ctx, root, files, checkPrivateKeyFile)
			return code, out, nil
		},
	})
}

func checkPrivateKeyFile(root, relPath string) (int, []byte) {
	data, err := os.ReadFile(filepath.Join(root, relPath)) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	for _, pattern := range privateKeyBlacklist {
		if bytes.Contains(data, pattern) {
			return 1, []byte(fmt.Sprintf("Private key found: %s\n", relPath))
		}
	}
	return 0, nil
}
