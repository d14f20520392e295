package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	// tmp/
	//   .buildinfo
	//   _static/
	//     style.css
	//   doctrees-html/
	//     index.doctree
	//   index.html
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".buildinfo"), "config: abc")
	writeFile(t, filepath.Join(tmpDir, "_static", "style.css"), "body {}")
	writeFile(t, filepath.Join(tmpDir, "doctrees-html", "index.doctree"), "pickle")
	writeFile(t, filepath.Join(tmpDir, "index.html"), "<html/>")

	walker := fs.NewWalker()

	var files []string
	for path := range walker.WalkFiles(tmpDir, []string{".buildinfo", "doctrees-*"}) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"_static/style.css", "index.html"}, files)
}

func TestWalker_WalkFiles_EarlyStop(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.html"), "a")
	writeFile(t, filepath.Join(tmpDir, "b.html"), "b")

	count := 0
	for range fs.NewWalker().WalkFiles(tmpDir, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.pdf")
	writeFile(t, path, "%PDF-1.5")

	hasher := fs.NewHasher(fs.NewWalker())

	hash1, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotZero(t, hash1)

	hash2, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
}

func TestHasher_HashArtifact_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.epub")
	writeFile(t, path, "epub-content")

	hasher := fs.NewHasher(fs.NewWalker())

	hash1, err := hasher.HashArtifact(path)
	require.NoError(t, err)
	assert.Len(t, hash1, 16)

	writeFile(t, path, "other-content")
	hash2, err := hasher.HashArtifact(path)
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash2)
}

func TestHasher_HashArtifact_Directory(t *testing.T) {
	hasher := fs.NewHasher(fs.NewWalker())

	first := t.TempDir()
	writeFile(t, filepath.Join(first, "index.html"), "<html/>")
	writeFile(t, filepath.Join(first, "_static", "style.css"), "body {}")
	writeFile(t, filepath.Join(first, ".buildinfo"), "first")

	second := t.TempDir()
	writeFile(t, filepath.Join(second, "index.html"), "<html/>")
	writeFile(t, filepath.Join(second, "_static", "style.css"), "body {}")
	writeFile(t, filepath.Join(second, ".buildinfo"), "second")

	hash1, err := hasher.HashArtifact(first)
	require.NoError(t, err)
	hash2, err := hasher.HashArtifact(second)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2, "location and bookkeeping files must not affect the hash")

	writeFile(t, filepath.Join(second, "index.html"), "<html>changed</html>")
	hash3, err := hasher.HashArtifact(second)
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash3)
}

func TestHasher_HashArtifact_Missing(t *testing.T) {
	hasher := fs.NewHasher(fs.NewWalker())

	_, err := hasher.HashArtifact(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
