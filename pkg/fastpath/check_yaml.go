package fastpath

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func init() {
	register("check-yaml", Check{
		SupportsArgs: func(args []string) bool {
			for _, a := range args {
				if a != "-m" && a != "--allow-multiple-documents" && a != "--unsafe" {
					return false
				}
				if a == "--unsafe" {
					return false // not yet supported in-process; fall back to the real hook
				}
			}
			return true
		},
		Run: func(ctx context.Context, root string, files []string, args []string) (int, []byte, error) {
			multi := false
			for _, a := range args {
				if a == "-m" || a == "--allow-multiple-documents" {
					multi = true
				}
			}
			code, out := RunConcurrentFileChecks(ctx, root, files, func(root, rel string) (int, []byte) {
				return checkYAML(root, rel, multi)
			})
			return code, out, nil
		},
	})
}

func checkYAML(root, relPath string, multi bool) (int, []byte) {
	path := filepath.Join(root, relPath)
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	count := 0
	for {
		var doc any
		err := dec.Decode(&doc)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
		}
		count++
		if !multi && count > 1 {
			return 1, []byte(fmt.Sprintf("%s: multiple YAML documents found, expected 1\n", relPath))
		}
	}
	return 0, nil
}
