package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/render"
)

// Test Plan for search:
// - BuildIndex then Open round-trips documents
// - Bare terms match summaries and descriptions
// - Field-scoped queries filter by kind
// - Rebuilding replaces the previous index

func fixtureDocs() []render.Document {
	return []render.Document{
		{FQN: "\\App\\UserRepo", Kind: "class", Summary: "User repository.", Description: "Loads and persists users.", Unit: "src/repo.php"},
		{FQN: "\\App\\UserRepo::save", Kind: "method", Summary: "Persists the record.", Unit: "src/repo.php"},
		{FQN: "\\App\\MAX_RETRIES", Kind: "constant", Summary: "Retry ceiling.", Unit: "src/consts.php"},
	}
}

func TestSearch_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "search.bleve")
	require.NoError(t, BuildIndex(path, fixtureDocs()))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	results, err := s.Search("persists", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	fqns := make([]string, 0, len(results))
	for _, r := range results {
		fqns = append(fqns, r.FQN)
	}
	assert.Contains(t, fqns, "\\App\\UserRepo::save")
}

func TestSearch_KindScoped(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "search.bleve")
	require.NoError(t, BuildIndex(path, fixtureDocs()))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	results, err := s.Search("kind:constant", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "\\App\\MAX_RETRIES", results[0].FQN)
	assert.Equal(t, "Retry ceiling.", results[0].Summary)
}

func TestSearch_RebuildReplaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "search.bleve")
	require.NoError(t, BuildIndex(path, fixtureDocs()))
	require.NoError(t, BuildIndex(path, []render.Document{
		{FQN: "\\Only\\One", Kind: "class", Summary: "Sole survivor."},
	}))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	results, err := s.Search("survivor", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "\\Only\\One", results[0].FQN)

	results, err = s.Search("persists", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
