package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/adapters/fs"
)

func TestResolver_ResolveSources_Success(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"pip.tex", "pip.aux", "pip-guide.tex", "python.ist"} {
		writeFile(t, filepath.Join(tmpDir, f), "content")
	}

	resolved, err := fs.NewResolver().ResolveSources(tmpDir, "*.tex")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "pip-guide.tex"),
		filepath.Join(tmpDir, "pip.tex"),
	}, resolved)
}

func TestResolver_ResolveSources_NoMatches(t *testing.T) {
	resolved, err := fs.NewResolver().ResolveSources(t.TempDir(), "*.tex")
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolver_ResolveSources_MissingDir(t *testing.T) {
	resolved, err := fs.NewResolver().ResolveSources(filepath.Join(t.TempDir(), "latex"), "*.tex")
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolver_ResolveSources_SkipsDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "weird.tex"), 0o750))
	writeFile(t, filepath.Join(tmpDir, "real.tex"), "content")

	resolved, err := fs.NewResolver().ResolveSources(tmpDir, "*.tex")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "real.tex")}, resolved)
}

func TestResolver_ResolveSources_GlobError(t *testing.T) {
	_, err := fs.NewResolver().ResolveSources(t.TempDir(), "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to glob path")
}
