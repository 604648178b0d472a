package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a workspace root or mutation source does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotADirectory is returned when a workspace root exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrNameConflict is returned when a rename target is already taken by another file.
	ErrNameConflict = errors.New("name already in use")
	// ErrUnsupportedBlob is returned when importing a file the blob store does not accept.
	ErrUnsupportedBlob = errors.New("unsupported blob type")
	// ErrInvalidBlobRef is returned for a stored name that is not a bare {uuid}.pdf.
	ErrInvalidBlobRef = errors.New("invalid blob reference")
)

// WriteError reports a failed filesystem write during a user-initiated mutation.
type WriteError struct {
	Op   string // create, rename, save, import
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
