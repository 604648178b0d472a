package service

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattsolo1/grove-folio/pkg/store"
)

// ReadPDFAsDataURI returns the PDF at path as a data URI. ok is false when
// path is not a readable .pdf file.
func (s *Service) ReadPDFAsDataURI(path string) (uri string, ok bool) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.Logger.WithError(err).WithField("path", path).Warn("Could not read PDF")
		return "", false
	}
	return store.EncodePDF(data), true
}
