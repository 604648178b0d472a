// Package store persists the application's own note collection and the PDFs
// imported into it. The data directory is owned exclusively by this package.
package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-folio/pkg/ident"
	"github.com/mattsolo1/grove-folio/pkg/models"
)

const (
	// NotesFile is the collection file inside the data directory.
	NotesFile = "notes.json"
	// BlobDir holds imported PDFs, one {uuid}.pdf file each.
	BlobDir   = "pdfs"

	blobExt       = ".pdf"
	dataURIPrefix = "data:application/pdf;base64,"
)

type collection struct {
	Notes []*models.StoredNote `json:"notes"`
}

// Store reads and writes notes.json and the blob directory. Writes through
// one Store are serialized; separate processes sharing a data directory are
// last-writer-wins.
type Store struct {
	dir    string
	logger *logrus.Entry
	mu     sync.Mutex
	now    func() time.Time
}

// New returns a Store rooted at dir. Call Initialize before first use.
func New(dir string, logger *logrus.Entry) *Store {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l) // Fallback to a null logger
	}
	return &Store{
		dir:    dir,
		logger: logger.WithField("component", "store"),
		now:    time.Now,
	}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// NotesPath returns the path of the collection file.
func (s *Store) NotesPath() string {
	return filepath.Join(s.dir, NotesFile)
}

// Initialize creates the data and blob directories and seeds an empty
// collection file when none exists. It is safe to call repeatedly.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Join(s.dir, BlobDir), 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", s.dir, err)
	}

	_, err := os.Stat(s.NotesPath())
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.NotesPath(), err)
	}
	return s.writeCollection(nil)
}

// LoadNotes returns the stored notes. A missing or malformed collection file
// is replaced by an empty one and an empty list is returned.
func (s *Store) LoadNotes() ([]*models.StoredNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.NotesPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WithError(err).WithField("path", s.NotesPath()).Warn("Could not read notes collection, resetting")
		}
		return s.reset()
	}

	notes, err := decodeCollection(data)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.NotesPath()).Warn("Notes collection is malformed, resetting")
		return s.reset()
	}
	return notes, nil
}

func decodeCollection(data []byte) ([]*models.StoredNote, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	field, ok := raw["notes"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(field), []byte("[")) {
		return nil, errors.New(`"notes" is not an array`)
	}
	var entries []*models.StoredNote
	if err := json.Unmarshal(field, &entries); err != nil {
		return nil, err
	}
	// null entries carry nothing to keep
	notes := make([]*models.StoredNote, 0, len(entries))
	for _, note := range entries {
		if note != nil {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (s *Store) reset() ([]*models.StoredNote, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", s.dir, err)
	}
	if err := s.writeCollection(nil); err != nil {
		return nil, err
	}
	return []*models.StoredNote{}, nil
}

// SaveNotes replaces the whole collection with notes. Notes without an id get
// a fresh one; every note's UpdatedAt is set to the time of this call. The
// saved notes are returned.
func (s *Store) SaveNotes(notes []*models.StoredNote) ([]*models.StoredNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	saved := make([]*models.StoredNote, 0, len(notes))
	for _, note := range notes {
		if note == nil {
			continue
		}
		n := *note
		if n.ID == "" {
			n.ID = ident.NewNoteID()
		}
		if n.Kind == "" {
			n.Kind = models.KindMarkdown
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		n.UpdatedAt = now
		saved = append(saved, &n)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", s.dir, err)
	}
	if err := s.writeCollection(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Store) writeCollection(notes []*models.StoredNote) error {
	if notes == nil {
		notes = []*models.StoredNote{}
	}
	data, err := json.MarshalIndent(collection{Notes: notes}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}
	data = append(data, '\n')
	if err := WriteFileAtomic(s.NotesPath(), data, 0o644); err != nil {
		return &models.WriteError{Op: "save", Path: s.NotesPath(), Err: err}
	}
	return nil
}

// ImportBlob copies the PDF at sourcePath into the blob directory under a
// fresh name and returns its metadata.
func (s *Store) ImportBlob(sourcePath string) (*models.ImportedBlob, error) {
	info, err := os.Stat(sourcePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("import %s: %w", sourcePath, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", sourcePath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("import %s: not a regular file: %w", sourcePath, models.ErrNotFound)
	}
	if !strings.EqualFold(filepath.Ext(sourcePath), blobExt) {
		return nil, fmt.Errorf("import %s: %w", sourcePath, models.ErrUnsupportedBlob)
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", sourcePath, err)
	}
	defer src.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	blobDir := filepath.Join(s.dir, BlobDir)
	if err := os.MkdirAll(blobDir, 0o755); err != nil {
		return nil, &models.WriteError{Op: "import", Path: blobDir, Err: err}
	}

	tmp, err := os.CreateTemp(blobDir, ".import-*.tmp")
	if err != nil {
		return nil, &models.WriteError{Op: "import", Path: blobDir, Err: err}
	}
	tmpPath := tmp.Name()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), src)
	if err != nil {
		return nil, &models.WriteError{Op: "import", Path: tmpPath, Err: errors.Join(err, tmp.Close(), os.Remove(tmpPath))}
	}
	if err := tmp.Close(); err != nil {
		return nil, &models.WriteError{Op: "import", Path: tmpPath, Err: errors.Join(err, os.Remove(tmpPath))}
	}

	id := ident.NewBlobID()
	blob := &models.ImportedBlob{
		ID:           id,
		StoredName:   id + blobExt,
		OriginalName: filepath.Base(sourcePath),
		Size:         size,
		SHA256:       hex.EncodeToString(hasher.Sum(nil)),
		ImportedAt:   s.now().UTC(),
	}

	target := filepath.Join(blobDir, blob.StoredName)
	if err := os.Rename(tmpPath, target); err != nil {
		return nil, &models.WriteError{Op: "import", Path: target, Err: errors.Join(err, os.Remove(tmpPath))}
	}

	s.logger.WithFields(logrus.Fields{
		"source": sourcePath,
		"stored": blob.StoredName,
		"size":   size,
	}).Debug("Imported blob")
	return blob, nil
}

// BlobPath returns the absolute path of a stored blob. storedName must be a
// bare {uuid}.pdf as returned by ImportBlob.
func (s *Store) BlobPath(storedName string) (string, error) {
	id, ok := strings.CutSuffix(storedName, blobExt)
	if !ok || !ident.IsBlobID(id) {
		return "", fmt.Errorf("blob %q: %w", storedName, models.ErrInvalidBlobRef)
	}
	return filepath.Join(s.dir, BlobDir, storedName), nil
}

// ReadBlob returns the stored blob as a data:application/pdf;base64 URI.
func (s *Store) ReadBlob(storedName string) (string, error) {
	path, err := s.BlobPath(storedName)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("blob %s: %w", storedName, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", storedName, err)
	}
	return EncodePDF(data), nil
}

// EncodePDF returns data as a data:application/pdf;base64 URI.
func EncodePDF(data []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(data)
}
