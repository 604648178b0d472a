package store

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-folio/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "data"), nil)
	require.NoError(t, s.Initialize())
	return s
}

func TestInitialize(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.NotesPath())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"notes\": []\n}\n", string(data))

	info, err := os.Stat(filepath.Join(s.Dir(), BlobDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// A second call leaves existing data alone.
	_, err = s.SaveNotes([]*models.StoredNote{{Title: "keep"}})
	require.NoError(t, err)
	require.NoError(t, s.Initialize())

	notes, err := s.LoadNotes()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "keep", notes[0].Title)
}

func TestLoadNotesRecoversFromCorruption(t *testing.T) {
	tests := map[string]string{
		"truncated json":    `{"notes": [`,
		"notes not array":   `{"notes": {"id": "x"}}`,
		"notes null":        `{"notes": null}`,
		"missing notes key": `{"other": []}`,
		"top level array":   `[]`,
		"binary garbage":    "\x00\x01\x02",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, os.WriteFile(s.NotesPath(), []byte(content), 0o644))

			notes, err := s.LoadNotes()
			require.NoError(t, err)
			assert.NotNil(t, notes)
			assert.Empty(t, notes)

			data, err := os.ReadFile(s.NotesPath())
			require.NoError(t, err)
			assert.JSONEq(t, `{"notes": []}`, string(data))
		})
	}
}

func TestLoadNotesDropsNullEntries(t *testing.T) {
	s := newTestStore(t)
	content := `{"notes": [null, {"id": "note-1", "title": "kept", "content": ""}, null]}`
	require.NoError(t, os.WriteFile(s.NotesPath(), []byte(content), 0o644))

	notes, err := s.LoadNotes()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.NotNil(t, notes[0])
	assert.Equal(t, "note-1", notes[0].ID)
	assert.Equal(t, "kept", notes[0].Title)

	notes, err = s.LoadNotes()
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestLoadNotesMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "fresh"), nil)

	notes, err := s.LoadNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.FileExists(t, s.NotesPath())
}

func TestSaveNotesAssignsIDsAndTimestamps(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	saved, err := s.SaveNotes([]*models.StoredNote{
		{Title: "first", Content: "one"},
		{ID: "note-existing", Title: "second", Content: "two", CreatedAt: created},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	assert.True(t, strings.HasPrefix(saved[0].ID, "note-"))
	assert.Equal(t, models.KindMarkdown, saved[0].Kind)
	assert.Equal(t, fixed, saved[0].CreatedAt)
	assert.Equal(t, fixed, saved[0].UpdatedAt)

	assert.Equal(t, "note-existing", saved[1].ID)
	assert.Equal(t, created, saved[1].CreatedAt)
	assert.Equal(t, fixed, saved[1].UpdatedAt)

	loaded, err := s.LoadNotes()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, saved[0].ID, loaded[0].ID)
	assert.Equal(t, "two", loaded[1].Content)

	data, err := os.ReadFile(s.NotesPath())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), "\n  \"notes\": [\n")
}

func TestSaveNotesDoesNotMutateInput(t *testing.T) {
	s := newTestStore(t)
	in := &models.StoredNote{Title: "draft"}

	_, err := s.SaveNotes([]*models.StoredNote{in})
	require.NoError(t, err)
	assert.Empty(t, in.ID)
	assert.True(t, in.UpdatedAt.IsZero())
}

func TestImportAndReadBlob(t *testing.T) {
	s := newTestStore(t)
	content := []byte("%PDF-1.4\n% test document\n")
	src := filepath.Join(t.TempDir(), "Paper.PDF")
	require.NoError(t, os.WriteFile(src, content, 0o644))

	blob, err := s.ImportBlob(src)
	require.NoError(t, err)

	sum := sha256.Sum256(content)
	assert.Equal(t, blob.ID+".pdf", blob.StoredName)
	assert.Equal(t, "Paper.PDF", blob.OriginalName)
	assert.Equal(t, int64(len(content)), blob.Size)
	assert.Equal(t, hex.EncodeToString(sum[:]), blob.SHA256)

	path, err := s.BlobPath(blob.StoredName)
	require.NoError(t, err)
	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	uri, err := s.ReadBlob(blob.StoredName)
	require.NoError(t, err)
	assert.Equal(t, "data:application/pdf;base64,"+base64.StdEncoding.EncodeToString(content), uri)

	// Importing the same file twice yields two distinct blobs with one digest.
	again, err := s.ImportBlob(src)
	require.NoError(t, err)
	assert.NotEqual(t, blob.StoredName, again.StoredName)
	assert.Equal(t, blob.SHA256, again.SHA256)

	entries, err := os.ReadDir(filepath.Join(s.Dir(), BlobDir))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files are left behind")
}

func TestImportBlobRejects(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o644))
	pdfDir := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(pdfDir, 0o755))

	_, err := s.ImportBlob(filepath.Join(dir, "missing.pdf"))
	assert.True(t, errors.Is(err, models.ErrNotFound), "got %v", err)

	_, err = s.ImportBlob(pdfDir)
	assert.True(t, errors.Is(err, models.ErrNotFound), "got %v", err)

	_, err = s.ImportBlob(txt)
	assert.True(t, errors.Is(err, models.ErrUnsupportedBlob), "got %v", err)
}

func TestReadBlobRejectsInvalidReferences(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{
		"../notes.json",
		"notes.json",
		"123e4567-e89b-12d3-a456-426614174000.txt",
		"123E4567-E89B-12D3-A456-426614174000.pdf",
		"x/123e4567-e89b-12d3-a456-426614174000.pdf",
		"",
	} {
		_, err := s.ReadBlob(name)
		assert.True(t, errors.Is(err, models.ErrInvalidBlobRef), "%q: got %v", name, err)
	}

	_, err := s.ReadBlob("123e4567-e89b-12d3-a456-426614174000.pdf")
	assert.True(t, errors.Is(err, models.ErrNotFound), "got %v", err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
