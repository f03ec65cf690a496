package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pre-commit-config.yaml"), []byte("repos: []\n"), 0o600))
}

func TestDiscoverFindsSingleProject(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root)

	ws, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, ws.Projects, 1)
	assert.Equal(t, root, ws.Projects[0].Dir)
}

func TestDiscoverFindsMultipleNonNestedProjects(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, "service-a"))
	writeConfig(t, filepath.Join(root, "service-b"))

	ws, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, ws.Projects, 2)
	assert.Equal(t, filepath.Join(root, "service-a"), ws.Projects[0].Dir)
	assert.Equal(t, filepath.Join(root, "service-b"), ws.Projects[1].Dir)
}

func TestDiscoverDoesNotDescendIntoProjectByDefault(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root)
	writeConfig(t, filepath.Join(root, "nested"))

	ws, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, ws.Projects, 1)
	assert.Equal(t, root, ws.Projects[0].Dir)
}

func TestDiscoverWithSelectorsDescendsIntoNamedNestedProject(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root)
	writeConfig(t, filepath.Join(root, "nested"))

	ws, err := DiscoverWithSelectors(root, []string{"nested::some-hook"})
	require.NoError(t, err)
	require.Len(t, ws.Projects, 2)
}

func TestDiscoverHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("vendor\n# comment\n"), 0o600))
	writeConfig(t, filepath.Join(root, "vendor", "thirdparty"))
	writeConfig(t, filepath.Join(root, "app"))

	ws, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, ws.Projects, 1)
	assert.Equal(t, filepath.Join(root, "app"), ws.Projects[0].Dir)
}

func TestDiscoverSkipsGitDirectories(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, ".git", "hooks"))
	writeConfig(t, root)

	ws, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, ws.Projects, 1)
	assert.Equal(t, root, ws.Projects[0].Dir)
}

func TestDiscoverNoProjectsReturnsEmptyWorkspace(t *testing.T) {
	root := t.TempDir()
	ws, err := Discover(root)
	require.NoError(t, err)
	assert.Empty(t, ws.Projects)
	assert.Equal(t, root, ws.Root)
}
