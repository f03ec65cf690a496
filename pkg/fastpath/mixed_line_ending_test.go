package fastpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixMixedLineEndingAutoPicksMajorityCRLF(t *testing.T) {
	root, rel := writeTemp(t, "a\r\nb\r\nc\n")
	code, _ := fixMixedLineEnding(root, rel, "auto")
	assert.Equal(t, 1, code)

	got, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\nc\r\n", string(got))
}

func TestFixMixedLineEndingForcedLF(t *testing.T) {
	root, rel := writeTemp(t, "a\r\nb\r\n")
	code, _ := fixMixedLineEnding(root, rel, "lf")
	assert.Equal(t, 1, code)

	got, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(got))
}

func TestFixMixedLineEndingAlreadyPureLFIsNoOp(t *testing.T) {
	root, rel := writeTemp(t, "a\nb\nc\n")
	code, out := fixMixedLineEnding(root, rel, "auto")
	assert.Equal(t, 0, code)
	assert.Nil(t, out)
}

func TestMixedLineEndingTargetParsesFixFlag(t *testing.T) {
	assert.Equal(t, "crlf", mixedLineEndingTarget([]string{"--fix=crlf"}))
	assert.Equal(t, "auto", mixedLineEndingTarget(nil))
}

func TestMixedLineEndingSupportsArgs(t *testing.T) {
	c, ok := Lookup("mixed-line-ending")
	require.True(t, ok)
	assert.True(t, c.SupportsArgs([]string{"--fix=crlf-inline"}))
	assert.False(t, c.SupportsArgs([]string{"--bogus"}))
}
