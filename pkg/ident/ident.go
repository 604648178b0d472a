// Package ident derives stable identifiers for workspace entries and
// generates fresh identifiers for store-owned records.
package ident

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

const (
	// DocumentPrefix marks documents discovered in a workspace.
	DocumentPrefix = "ws"
	// NodePrefix marks display tree nodes.
	NodePrefix     = "node"
	// NotePrefix marks notes owned by the collection store.
	NotePrefix     = "note"
)

// digestLen is the number of digest bytes kept in a path-derived token.
const digestLen = 16

// FromPath returns prefix-<hex digest of path>. The token depends only on the
// bytes of path, so it is stable across scans and process runs.
func FromPath(prefix, path string) string {
	sum := sha256.Sum256([]byte(path))
	return prefix + "-" + hex.EncodeToString(sum[:digestLen])
}

// Document returns the id of the document at the absolute path.
func Document(path string) string {
	return FromPath(DocumentPrefix, path)
}

// Node returns the id of the tree node at the absolute path.
func Node(path string) string {
	return FromPath(NodePrefix, path)
}

// NewNoteID returns a fresh id for a store-owned note.
func NewNoteID() string {
	return NotePrefix + "-" + uuid.NewString()
}

// NewBlobID returns a fresh id for an imported blob.
func NewBlobID() string {
	return uuid.NewString()
}

// IsBlobID reports whether s is in the canonical form produced by NewBlobID.
func IsBlobID(s string) bool {
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	return err == nil && id.String() == s
}
