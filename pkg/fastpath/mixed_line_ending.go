package fastpath

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func init() {
	register("mixed-line-ending", Check{
		SupportsArgs: func(args []string) bool {
			for _, a := range args {
				if a != "--fix=auto" && a != "--fix=crlf" && a != "--fix=lf" &&
					a != "--fix=crlf-inline" && a != "--fix=no" && !strings.HasPrefix(a, "--fix") {
					return false
				}
			}
			return true
		},
		Run: func(ctx context.Context, root string, files []string, args []string) (int, []byte, error) {
			target := mixedLineEndingTarget(args)
			code, out := RunConcurrentFileChecks(ctx, root, files, func(root, rel string) (int, []byte) {
				return fixMixedLineEnding(root, rel, target)
			})
			return code, out, nil
		},
	})
}

func mixedLineEndingTarget(args []string) string {
	for _, a := range args {
		if strings.HasPrefix(a, "--fix=") {
			return strings.TrimPrefix(a, "--fix=")
		}
	}
	return "auto"
}

// fixMixedLineEnding rewrites a file to use a single, consistent line
// ending style. "auto" picks whichever style is most common in the file
// (ties favor the first one encountered), matching the intent of
// pre-commit-hooks' default.
func fixMixedLineEnding(root, relPath, target string) (int, []byte) {
	path := filepath.Join(root, relPath)
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}

	lines := splitKeepEndings(data)
	crlf, lf, cr := 0, 0, 0
	for _, l := range lines {
		_, ending := splitEnding(l)
		switch string(ending) {
		case "\r\n":
			crlf++
		case "\n":
			lf++
		case "\r":
			cr++
		}
	}
	if crlf == 0 && cr == 0 {
		return 0, nil // already pure LF (or no endings at all)
	}

	desired := target
	if desired == "auto" || desired == "" {
		desired = "lf"
		if crlf >= lf && crlf >= cr {
			desired = "crlf"
		}
	}
	want := map[string]string{"lf": "\n", "crlf": "\r\n", "crlf-inline": "\r\n"}[desired]
	if want == "" {
		want = "\n"
	}

	var out bytes.Buffer
	changed := false
	for _, l := range lines {
		content, ending := splitEnding(l)
		out.Write(content)
		if ending != nil {
			if string(ending) != want {
				changed = true
			}
			out.WriteString(want)
		}
	}
	if !changed {
		return 0, nil
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil { //nolint:gosec // matches source file's own mode
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	return 1, []byte(fmt.Sprintf("Fixing %s\n", relPath))
}
