package models

import "github.com/mattsolo1/grove-folio/pkg/tree"

// FolderSnapshot is the result of one full scan of a workspace root.
type FolderSnapshot struct {
	Tree  *tree.Node        `json:"tree"`
	Notes []*DocumentRecord `json:"notes"`
}

// Find returns the record whose absolute path is path, or nil.
func (s *FolderSnapshot) Find(path string) *DocumentRecord {
	for _, doc := range s.Notes {
		if doc.AbsolutePath == path {
			return doc
		}
	}
	return nil
}

// FindByID returns the record with the given id, or nil.
func (s *FolderSnapshot) FindByID(id string) *DocumentRecord {
	if id == "" {
		return nil
	}
	for _, doc := range s.Notes {
		if doc.ID == id {
			return doc
		}
	}
	return nil
}

// CreateResult is returned by a successful create.
type CreateResult struct {
	FolderSnapshot
	CreatedNoteID string `json:"createdNoteId"`
}

// RenameResult is returned by a successful rename.
type RenameResult struct {
	FolderSnapshot
	RenamedNoteID string `json:"renamedNoteId"`
	PreviousPath  string `json:"previousPath"`
	NextPath      string `json:"nextPath"`
}
