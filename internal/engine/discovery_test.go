package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for file discovery:
// - Source patterns match nested and root-level files
// - Ignore patterns exclude files and whole directories
// - The tool's own .docweave directory is always ignored
// - Invalid patterns fail construction

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("<?php\n"), 0o644))
	}
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscoverFiles_PatternsAndIgnores(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"index.php",
		"src/User.php",
		"src/deep/nested/Post.php",
		"src/readme.md",
		"vendor/pkg/Lib.php",
		".docweave/config.yml",
	)

	fd, err := NewFileDiscovery(root, []string{"**/*.php"}, []string{"vendor/**"})
	require.NoError(t, err)

	files, err := fd.DiscoverFiles()
	require.NoError(t, err)

	got := relPaths(t, root, files)
	assert.ElementsMatch(t, []string{
		"index.php",
		"src/User.php",
		"src/deep/nested/Post.php",
	}, got)
}

func TestDiscoverFiles_IgnoreDirectoryPrefix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"src/App.php",
		"tests/fixtures/sample.php",
	)

	fd, err := NewFileDiscovery(root, []string{"**/*.php"}, []string{"tests/fixtures/**"})
	require.NoError(t, err)

	files, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/App.php"}, relPaths(t, root, files))
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"[unclosed"}, nil)
	assert.Error(t, err)
}
