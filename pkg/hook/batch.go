package hook

import "runtime"

// Platform argv byte-length bounds the scheduler stays under when splitting
// a hook's file list into batches, leaving headroom for entry/env.
const (
	argvLimitWindows = 32 * 1024
	argvLimitDefault = 128 * 1024
)

func argvByteLimit() int {
	if runtime.GOOS == "windows" {
		return argvLimitWindows
	}
	return argvLimitDefault
}

// passFilenamesForHook mirrors commands.shouldPassFilenames: whether files
// are appended as command-line arguments at all. Hooks that don't take
// filenames never need batching.
func passFilenamesForHook(passFilenames *bool, language string) bool {
	if passFilenames != nil {
		return *passFilenames
	}
	return language != "docker" && language != "docker_image"
}

// batchFiles splits files into groups whose total argv contribution (entry +
// static args + the batch's files, each plus a separator byte) stays under
// limit. Always returns at least one batch (possibly empty) so callers can
// treat "no files" uniformly with "one small batch".
func batchFiles(entry string, args, files []string, limit int) [][]string {
	base := len(entry)
	for _, a := range args {
		base += len(a) + 1
	}

	if len(files) == 0 {
		return [][]string{nil}
	}

	var batches [][]string
	var cur []string
	curLen := base

	for _, f := range files {
		add := len(f) + 1
		if len(cur) > 0 && curLen+add > limit {
			batches = append(batches, cur)
			cur = nil
			curLen = base
		}
		cur = append(cur, f)
		curLen += add
	}
	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}
