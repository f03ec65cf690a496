package fastpath

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a throwaway git repository with a committed author
// identity, mirroring the setup the git package's own tests use.
func initTestRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = root
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	return root
}

func gitAdd(t *testing.T, root string, files ...string) {
	t.Helper()
	args := append([]string{"add"}, files...)
	cmd := exec.Command("git", args...)
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git add: %s", out)
}

func TestCheckAddedLargeFileUnderLimit(t *testing.T) {
	root, rel := writeTemp(t, "small content")
	code, out := checkAddedLargeFile(root, rel, 500)
	assert.Equal(t, 0, code)
	assert.Nil(t, out)
}

func TestCheckAddedLargeFileOverLimit(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "big.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 2*1024), 0o640))

	code, out := checkAddedLargeFile(root, "big.bin", 1)
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "exceeds 1 KB")
}

func TestCheckAddedLargeFileMissingPath(t *testing.T) {
	root := t.TempDir()
	code, out := checkAddedLargeFile(root, "nope.bin", 500)
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, out)
}

func TestSplitNulTerminated(t *testing.T) {
	assert.Equal(t, []string{"a.txt", "b.txt"}, splitNulTerminated([]byte("a.txt\x00b.txt\x00")))
	assert.Nil(t, splitNulTerminated(nil))
	assert.Nil(t, splitNulTerminated([]byte("")))
}

func TestGitAddedFilesOnlyReportsStagedAdditions(t *testing.T) {
	root := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "committed.txt"), []byte("x"), 0o640))
	gitAdd(t, root, "committed.txt")
	cmd := exec.Command("git", "commit", "-q", "-m", "initial")
	cmd.Dir = root
	require.NoError(t, cmd.Run())

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.bin"), make([]byte, 2048), 0o640))
	gitAdd(t, root, "new.bin")

	added, err := gitAddedFiles(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.bin"}, added)
}

func TestGitLFSFilesEmptyWhenGitLFSAbsentOrUnused(t *testing.T) {
	root := initTestRepo(t)
	files, err := gitLFSFiles(context.Background(), root, []string{"a.bin"})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGitLFSFilesEmptyListShortCircuits(t *testing.T) {
	files, err := gitLFSFiles(context.Background(), "/nonexistent", nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCheckAddedLargeFilesSupportsArgs(t *testing.T) {
	c, ok := Lookup("check-added-large-files")
	require.True(t, ok)
	assert.True(t, c.SupportsArgs([]string{"--enforce-all", "--maxkb=100"}))
	assert.True(t, c.SupportsArgs([]string{"--maxkb", "100"}))
	assert.False(t, c.SupportsArgs([]string{"--bogus"}))
}

func TestCheckAddedLargeFilesEndToEndOnlyFlagsNewAddition(t *testing.T) {
	root := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "old.bin"), make([]byte, 2048), 0o640))
	gitAdd(t, root, "old.bin")
	cmd := exec.Command("git", "commit", "-q", "-m", "initial")
	cmd.Dir = root
	require.NoError(t, cmd.Run())

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.bin"), make([]byte, 2048), 0o640))
	gitAdd(t, root, "new.bin")

	c, ok := Lookup("check-added-large-files")
	require.True(t, ok)
	code, out, err := c.Run(context.Background(), root, []string{"old.bin", "new.bin"}, []string{"--maxkb=1"})
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "new.bin")
	assert.NotContains(t, string(out), "old.bin")
}
