package fastpath

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHasShebangTrue(t *testing.T) {
	root, rel := writeTemp(t, "#!/bin/sh\necho hi\n")
	has, err := fileHasShebang(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestFileHasShebangFalse(t *testing.T) {
	root, rel := writeTemp(t, "echo hi\n")
	has, err := fileHasShebang(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestFileHasShebangEmptyFile(t *testing.T) {
	root, rel := writeTemp(t, "")
	has, err := fileHasShebang(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCheckShebangFileExecutableWithShebangIsClean(t *testing.T) {
	root, rel := writeTemp(t, "#!/bin/sh\n")
	code, out := checkShebangFile(root, rel)
	assert.Equal(t, 0, code)
	assert.Nil(t, out)
}

func TestCheckShebangFileMissingShebangWarns(t *testing.T) {
	root, rel := writeTemp(t, "echo hi\n")
	code, out := checkShebangFile(root, rel)
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "has no (or invalid) shebang")
	assert.Contains(t, string(out), "chmod -x")
}

func TestGitTracksFileModeDefaultsTrueWhenUnset(t *testing.T) {
	root := initTestRepo(t)
	tracks, err := gitTracksFileMode(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, tracks)
}

func TestGitTracksFileModeFalseWhenConfigured(t *testing.T) {
	root := initTestRepo(t)
	cmd := exec.Command("git", "config", "core.fileMode", "false")
	cmd.Dir = root
	require.NoError(t, cmd.Run())

	tracks, err := gitTracksFileMode(context.Background(), root)
	require.NoError(t, err)
	assert.False(t, tracks)
}

func TestGitCheckShebangsUsesTrackedModeBits(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file mode bits not meaningful on windows")
	}
	root := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "run.sh"), []byte("echo hi\n"), 0o750))
	gitAdd(t, root, "run.sh")

	code, out, err := gitCheckShebangs(context.Background(), root, []string{"run.sh"})
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "run.sh")
}

func TestGitCheckShebangsSkipsNonExecutableEntries(t *testing.T) {
	root := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello\n"), 0o640))
	gitAdd(t, root, "notes.txt")

	code, out, err := gitCheckShebangs(context.Background(), root, []string{"notes.txt"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}
