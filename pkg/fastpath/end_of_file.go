package fastpath

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

func init() {
	register("end-of-file-fixer", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			code, out := RunConcurrentFileChecks(ctx, root, files, fixEndOfFile)
			return code, out, nil
		},
	})
}

// maxEOFScan is how large a block fixEndOfFile reads per backward scan
// step, so a multi-gigabyte file is never read in full just to look at
// its tail.
const maxEOFScan = 4 * 1024

// fixEndOfFile ensures filename ends with exactly one line ending of
// whatever style was last used in the file, rewriting it in place when it
// doesn't. Behavior, verified against the reference implementation this
// is grounded on:
//   - an empty file is left untouched
//   - a file with content but no trailing line ending gets a plain "\n"
//     appended, regardless of what ending style the rest of the file uses
//   - a file whose tail already has exactly one correct line ending is a
//     true no-op
//   - excess trailing blank lines collapse down to exactly one ending of
//     the type that was present
//   - a file made up entirely of line-ending bytes collapses to empty
func fixEndOfFile(root, relPath string) (int, []byte) {
	path := filepath.Join(root, relPath)
	f, err := os.OpenFile(path, os.O_RDWR, 0) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	size := info.Size()
	if size == 0 {
		return 0, nil
	}

	pos, ending, err := findLastNonEnding(f, size)
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}

	switch {
	case pos < 0:
		// File is entirely line-ending bytes.
		if err := f.Truncate(0); err != nil {
			return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
		}
		return 1, []byte(fmt.Sprintf("Fixing %s\n", relPath))
	case ending == "":
		if _, err := f.WriteAt([]byte("\n"), pos+1); err != nil {
			return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
		}
		return 1, []byte(fmt.Sprintf("Fixing %s\n", relPath))
	default:
		newSize := pos + 1 + int64(len(ending))
		if newSize == size {
			return 0, nil
		}
		if err := f.Truncate(newSize); err != nil {
			return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
		}
		return 1, []byte(fmt.Sprintf("Fixing %s\n", relPath))
	}
}

func determineLineEnding(first, second byte) string {
	switch {
	case first == '\r' && second == '\n':
		return "\r\n"
	case first == '\n':
		return "\n"
	case first == '\r':
		return "\r"
	default:
		return ""
	}
}

// findLastNonEnding scans backward from EOF in maxEOFScan-byte blocks for
// the last byte that is not part of a trailing run of '\n'/'\r' bytes.
// Returns (-1, ending) when the whole file is line-ending bytes, and
// (-1, "") only for a zero-length file (callers special-case size==0
// before reaching here).
func findLastNonEnding(f *os.File, dataLen int64) (int64, string, error) {
	var readLen int64
	var nextChar byte
	ending := ""
	buf := make([]byte, maxEOFScan)

	for readLen < dataLen {
		blockSize := int64(maxEOFScan)
		if remaining := dataLen - readLen; remaining < blockSize {
			blockSize = remaining
		}
		offset := dataLen - readLen - blockSize
		if _, err := f.ReadAt(buf[:blockSize], offset); err != nil {
			return 0, "", err
		}
		readLen += blockSize

		pos := blockSize
		for pos > 0 {
			pos--
			b := buf[pos]
			if b == '\n' || b == '\r' {
				if pos+1 == blockSize {
					ending = determineLineEnding(b, nextChar)
				} else {
					ending = determineLineEnding(b, buf[pos+1])
				}
				continue
			}
			return offset + pos, ending, nil
		}
		nextChar = buf[0]
	}
	return -1, ending, nil
}
