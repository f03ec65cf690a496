package fastpath

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var conflictPatterns = [][]byte{
	[]byte("<<<<<<< "),
	[]byte("======= "),
	[]byte("=======\r\n"),
	[]byte("=======\n"),
	[]byte(">>>>>>> "),
}

func init() {
	register("check-merge-conflict", Check{
		SupportsArgs: func(args []string) bool {
			for _, a := range args {
				if a != "--assume-in-merge" {
					return false
				}
			}
			return true
		},
		Run: func(ctx context.Context, root string, files []string, args []string) (int, []byte, error) {
			assumeInMerge := false
			for _, a := range args {
				if a == "--assume-in-merge" {
					assumeInMerge = true
				}
			}
			if !assumeInMerge {
				inMerge, err := isInMerge(root)
				if err != nil {
					return 0, nil, err
				}
				if !inMerge {
					return 0, nil, nil
				}
			}
			code, out := RunConcurrentFileChecks(ctx, root, files, checkMergeConflictFile)
			return code, out, nil
		},
	})
}

func isInMerge(root string) (bool, error) {
	gitDir, err := resolveGitDir(root)
	if err != nil {
		return false, nil //nolint:nilerr // no .git dir means nothing to check
	}

	if _, err := os.Stat(filepath.Join(gitDir, "MERGE_MSG")); err != nil {
		return false, nil
	}

	for _, name := range []string{"MERGE_HEAD", "rebase-apply", "rebase-merge"} {
		if _, err := os.Stat(filepath.Join(gitDir, name)); err == nil {
			return true, nil
		}
	}
	return false, nil
}

func checkMergeConflictFile(root, relPath string) (int, []byte) {
	path := filepath.Join(root, relPath)
	f, err := os.Open(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	defer f.Close() //nolint:errcheck

	code := 0
	var out bytes.Buffer
	reader := bufio.NewReader(f)
	lineNumber := 1

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			for _, pattern := range conflictPatterns {
				if bytes.HasPrefix(line, pattern) {
					display := bytes.TrimSuffix(bytes.TrimSuffix(pattern, []byte("\n")), []byte("\r"))
					fmt.Fprintf(&out, "%s:%d: Merge conflict string %q found\n", relPath, lineNumber, display)
					code = 1
					break
				}
			}
		}
		if err != nil {
			break
		}
		lineNumber++
	}
	return code, out.Bytes()
}
