package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-folio/pkg/models"
)

func doc(id, path string, kind models.DocumentKind, content string) *models.DocumentRecord {
	return &models.DocumentRecord{
		ID:           id,
		Title:        filepath.Base(path),
		Kind:         kind,
		AbsolutePath: path,
		Content:      &content,
		UpdatedAt:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

// newLikeIndex returns an index that answers queries with LIKE scans, as
// builds without the sqlite_fts5 tag do.
func newLikeIndex(t *testing.T) *Index {
	t.Helper()
	idx := newTestIndex(t)
	idx.useFTS = false
	return idx
}

func TestIndexSnapshotAndSearch(t *testing.T) {
	for name, newIndex := range map[string]func(*testing.T) *Index{
		"default": newTestIndex,
		"like":    newLikeIndex,
	} {
		t.Run(name, func(t *testing.T) {
			testIndexSnapshotAndSearch(t, newIndex(t))
		})
	}
}

func testIndexSnapshotAndSearch(t *testing.T, idx *Index) {

	docs := []*models.DocumentRecord{
		doc("ws-1", "/notes/physics.md", models.KindMarkdown, "Notes on quantum entanglement."),
		doc("ws-2", "/notes/recipes.md", models.KindMarkdown, "Bread needs flour and water."),
		doc("ws-3", "/notes/sim.py", models.KindCode, "# quantum simulator\nimport numpy"),
		{ID: "ws-4", Title: "paper", Kind: models.KindPDF, AbsolutePath: "/notes/paper.pdf"},
	}

	n, err := idx.IndexSnapshot("/notes", docs)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "only text-like documents are indexed")

	results, err := idx.Search("quantum", &Options{Root: "/notes"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
		assert.Equal(t, "/notes", r.Root)
	}
	assert.ElementsMatch(t, []string{"/notes/physics.md", "/notes/sim.py"}, paths)

	results, err = idx.Search("quantum", &Options{Root: "/notes", Kind: models.KindCode})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ws-3", results[0].ID)
	assert.Equal(t, models.KindCode, results[0].Kind)
}

func TestIndexSnapshotReplacesRoot(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.IndexSnapshot("/a", []*models.DocumentRecord{
		doc("ws-1", "/a/old.md", models.KindMarkdown, "obsolete paragraph"),
	})
	require.NoError(t, err)
	_, err = idx.IndexSnapshot("/b", []*models.DocumentRecord{
		doc("ws-2", "/b/other.md", models.KindMarkdown, "obsolete elsewhere"),
	})
	require.NoError(t, err)

	_, err = idx.IndexSnapshot("/a", []*models.DocumentRecord{
		doc("ws-1", "/a/old.md", models.KindMarkdown, "rewritten text"),
	})
	require.NoError(t, err)

	results, err := idx.Search("obsolete", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/b/other.md", results[0].Path)

	require.NoError(t, idx.RemoveRoot("/b"))
	results, err = idx.Search("obsolete", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNestedRootsKeepSeparateRows(t *testing.T) {
	for name, newIndex := range map[string]func(*testing.T) *Index{
		"default": newTestIndex,
		"like":    newLikeIndex,
	} {
		t.Run(name, func(t *testing.T) {
			idx := newIndex(t)
			shared := doc("ws-1", "/r/sub/deep.md", models.KindMarkdown, "lighthouse keeper")

			_, err := idx.IndexSnapshot("/r", []*models.DocumentRecord{shared})
			require.NoError(t, err)
			_, err = idx.IndexSnapshot("/r/sub", []*models.DocumentRecord{shared})
			require.NoError(t, err)

			for _, root := range []string{"/r", "/r/sub"} {
				results, err := idx.Search("lighthouse", &Options{Root: root})
				require.NoError(t, err)
				require.Len(t, results, 1, "root %s", root)
				assert.Equal(t, root, results[0].Root)
			}

			require.NoError(t, idx.RemoveRoot("/r/sub"))
			results, err := idx.Search("lighthouse", &Options{Root: "/r"})
			require.NoError(t, err)
			assert.Len(t, results, 1)
		})
	}
}

func TestLikeSearchTreatsWildcardsLiterally(t *testing.T) {
	idx := newLikeIndex(t)

	_, err := idx.IndexSnapshot("/r", []*models.DocumentRecord{
		doc("ws-1", "/r/a.md", models.KindMarkdown, "growth was 50% this year"),
		doc("ws-2", "/r/b.md", models.KindMarkdown, "growth was 500 units"),
		doc("ws-3", "/r/c.py", models.KindCode, "snake_case names"),
		doc("ws-4", "/r/d.py", models.KindCode, "snakeXcase names"),
	})
	require.NoError(t, err)

	results, err := idx.Search("50%", &Options{Root: "/r"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ws-1", results[0].ID)

	results, err = idx.Search("snake_case", &Options{Root: "/r"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ws-3", results[0].ID)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% a\_b c\\d`, escapeLike(`100% a_b c\d`))
}

func TestSearchQuotesUserInput(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.IndexSnapshot("/r", []*models.DocumentRecord{
		doc("ws-1", "/r/a.md", models.KindMarkdown, "alpha beta gamma"),
	})
	require.NoError(t, err)

	for _, q := range []string{`alpha"`, "alpha AND", "NEAR(alpha", "alpha*"} {
		_, err := idx.Search(q, nil)
		assert.NoError(t, err, "query %q", q)
	}

	results, err := idx.Search("   ", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchExpression(t *testing.T) {
	assert.Equal(t, `"alpha" "be""ta"`, matchExpression([]string{"alpha", `be"ta`}))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short text", "text", 32))
	assert.Equal(t, "...cd Needle ef...", excerpt("ab cd Needle ef gh", "needle", 3))
	assert.Equal(t, "abc...", excerpt("abcdef", "zzz", 0))
}
