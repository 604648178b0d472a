package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-folio/pkg/models"
	"github.com/mattsolo1/grove-folio/pkg/store"
	"github.com/mattsolo1/grove-folio/pkg/workspace"
)

// maxCreateAttempts bounds the retries when another writer takes a free name
// between the existence check and the exclusive create.
const maxCreateAttempts = 100

// LoadFolderNotes scans path and returns its tree and documents.
func (s *Service) LoadFolderNotes(path string) (*models.FolderSnapshot, error) {
	root, docs, err := s.BuildTree(path)
	if err != nil {
		return nil, fmt.Errorf("load folder: %w", err)
	}
	return &models.FolderSnapshot{Tree: root, Notes: docs}, nil
}

// CreateMarkdownFile creates an empty file named after name in dir, never
// overwriting an existing entry, and returns a fresh snapshot of dir.
func (s *Service) CreateMarkdownFile(dir, name string) (*models.CreateResult, error) {
	root, err := workspace.ResolveRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	fileName := workspace.SanitizeName(name, s.Config.DefaultExtension)
	path, err := createExclusive(root, fileName)
	if err != nil {
		return nil, err
	}

	s.Logger.WithField("path", path).Info("Created note")

	snap, err := s.LoadFolderNotes(root)
	if err != nil {
		return nil, err
	}

	result := &models.CreateResult{FolderSnapshot: *snap}
	if doc := snap.Find(path); doc != nil {
		result.CreatedNoteID = doc.ID
	} else {
		s.Logger.WithField("path", path).Warn("Created note is missing from the rescanned tree")
	}
	return result, nil
}

func createExclusive(dir, fileName string) (string, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		path, err := workspace.FreePath(dir, fileName)
		if err != nil {
			return "", &models.WriteError{Op: "create", Path: filepath.Join(dir, fileName), Err: err}
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", &models.WriteError{Op: "create", Path: path, Err: err}
		}
		if err := f.Close(); err != nil {
			return "", &models.WriteError{Op: "create", Path: path, Err: err}
		}
		return path, nil
	}
	return "", &models.WriteError{Op: "create", Path: filepath.Join(dir, fileName), Err: fs.ErrExist}
}

// RenameMarkdownFile renames oldPath to newName within its directory and
// returns a fresh snapshot of root. A target taken by a different file is a
// conflict and leaves both files untouched.
func (s *Service) RenameMarkdownFile(root, oldPath, newName string) (*models.RenameResult, error) {
	rootPath, err := workspace.ResolveRoot(root)
	if err != nil {
		return nil, fmt.Errorf("rename note: %w", err)
	}

	src, err := filepath.Abs(oldPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", oldPath, err)
	}
	srcInfo, err := os.Lstat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("rename %s: %w", src, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", src, err)
	}

	target := filepath.Join(filepath.Dir(src), workspace.SanitizeName(newName, s.Config.DefaultExtension))
	if target != src {
		targetInfo, err := os.Lstat(target)
		switch {
		case err == nil:
			// Case-only renames on case-insensitive filesystems resolve to the source itself.
			if !os.SameFile(srcInfo, targetInfo) {
				return nil, fmt.Errorf("rename %s to %s: %w", src, target, models.ErrNameConflict)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}

		if err := os.Rename(src, target); err != nil {
			return nil, &models.WriteError{Op: "rename", Path: src, Err: err}
		}
		s.Logger.WithFields(logrus.Fields{
			"from": src,
			"to":   target,
		}).Info("Renamed note")
	}

	snap, err := s.LoadFolderNotes(rootPath)
	if err != nil {
		return nil, err
	}

	result := &models.RenameResult{
		FolderSnapshot: *snap,
		PreviousPath:   src,
		NextPath:       target,
	}
	if doc := snap.Find(target); doc != nil {
		result.RenamedNoteID = doc.ID
	}
	return result, nil
}

// SaveMarkdownFile replaces the content of the file at path, creating it and
// its parent directories if needed. The write goes through a temp file, so
// an interrupted save never leaves a truncated note.
func (s *Service) SaveMarkdownFile(path, content string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	// Write through symlinks instead of replacing them.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return &models.WriteError{Op: "save", Path: abs, Err: err}
	}

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		if info.IsDir() {
			return &models.WriteError{Op: "save", Path: abs, Err: errors.New("is a directory")}
		}
		perm = info.Mode().Perm()
	}

	if err := store.WriteFileAtomic(abs, []byte(content), perm); err != nil {
		return &models.WriteError{Op: "save", Path: abs, Err: err}
	}

	s.Logger.WithFields(logrus.Fields{
		"path":  abs,
		"bytes": len(content),
	}).Debug("Saved note")
	return nil
}
