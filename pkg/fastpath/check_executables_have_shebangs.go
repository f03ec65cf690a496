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
	register("check-executables-have-shebangs", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			tracksExecutableBit, err := gitTracksFileMode(ctx, root)
			if err != nil {
				return 0, nil, err
			}
			if tracksExecutableBit {
				code, out := RunConcurrentFileChecks(ctx, root, files, checkShebangFile)
				return code, out, nil
			}
			code, out, err := gitCheckShebangs(ctx, root, files)
			return code, out, err
		},
	})
}

func gitTracksFileMode(ctx context.Context, root string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "config", "core.fileMode")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return true, nil //nolint:nilerr // unset defaults to true
	}
	return strings.TrimSpace(string(out)) != "false", nil
}

func checkShebangFile(root, relPath string) (int, []byte) {
	has, err := fileHasShebang(filepath.Join(root, relPath))
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	if has {
		return 0, nil
	}
	return 1, []byte(shebangWarning(relPath))
}

func shebangWarning(path string) string {
	return fmt.Sprintf(
		"%s marked executable but has no (or invalid) shebang!\n"+
			"  If it isn't supposed to be executable, try: 'chmod -x %s'\n"+
			"  If on Windows, you may also need to: 'git add --chmod=-x %s'\n"+
			"  If it is supposed to be executable, double-check its shebang.\n",
		path, path, path,
	)
}

func fileHasShebang(path string) (bool, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return false, err
	}
	defer f.Close() //nolint:errcheck

	var buf [2]byte
	n, err := f.Read(buf[:])
	if err != nil && n == 0 {
		return false, nil //nolint:nilerr // empty file has no shebang, not an error
	}
	return n >= 2 && buf[0] == '#' && buf[1] == '!', nil
}

// gitCheckShebangs uses `git ls-files --stage` to read the tracked mode
// bits directly, for platforms where the filesystem's executable bit
// isn't honored by git (core.fileMode=false, typically Windows).
func gitCheckShebangs(ctx context.Context, root string, files []string) (int, []byte, error) {
	wanted := make(map[string]bool, len(files))
	for _, f := range files {
		wanted[filepath.ToSlash(f)] = true
	}

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--stage", "-z", "--", ".")
	cmd.Dir = root
	raw, err := cmd.Output()
	if err != nil {
		return 0, nil, fmt.Errorf("git ls-files --stage: %w", err)
	}

	code := 0
	var out []byte
	for _, entry := range strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00") {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		fileName := parts[1]
		if !wanted[fileName] {
			continue
		}
		meta := strings.Fields(parts[0])
		if len(meta) == 0 {
			continue
		}
		modeBits, err := strconv.ParseUint(meta[0], 8, 32)
		if err != nil {
			continue
		}
		if modeBits&0o111 == 0 {
			continue
		}
		has, err := fileHasShebang(filepath.Join(root, fileName))
		if err != nil {
			code = 1
			out = append(out, fmt.Sprintf("%s: %v\n", fileName, err)...)
			continue
		}
		if !has {
			code = 1
			out = append(out, shebangWarning(fileName)...)
		}
	}
	return code, out, nil
}
