package models

import "time"

// StoredNote is a note owned by the application-data store rather than by a workspace.
type StoredNote struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Kind      DocumentKind `json:"kind,omitempty"`
	Language  string       `json:"language,omitempty"`
	Content   string       `json:"content"`
	Tags      []string     `json:"tags,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ImportedBlob describes a PDF copied into the blob directory.
type ImportedBlob struct {
	ID           string    `json:"id"`
	StoredName   string    `json:"storedName"` // {id}.pdf, relative to the blob directory
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	SHA256       string    `json:"sha256"`
	ImportedAt   time.Time `json:"importedAt"`
}
