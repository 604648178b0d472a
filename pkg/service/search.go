package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-folio/pkg/models"
	"github.com/mattsolo1/grove-folio/pkg/search"
	"github.com/mattsolo1/grove-folio/pkg/workspace"
)

// IndexFolder scans dir and replaces its documents in the search index.
// It returns the number of documents indexed.
func (s *Service) IndexFolder(dir string) (int, error) {
	snap, err := s.LoadFolderNotes(dir)
	if err != nil {
		return 0, err
	}

	root := snap.Tree.Path
	n, err := s.Index.IndexSnapshot(root, snap.Notes)
	if err != nil {
		return 0, fmt.Errorf("index %s: %w", root, err)
	}

	s.Logger.WithFields(logrus.Fields{
		"root":    root,
		"indexed": n,
		"fts":     s.Index.UsesFTS(),
	}).Debug("Indexed workspace")
	return n, nil
}

// SearchFolder queries the index for documents under dir.
func (s *Service) SearchFolder(dir, query string, kind models.DocumentKind, limit int) ([]*search.Result, error) {
	root, err := workspace.ResolveRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results, err := s.Index.Search(query, &search.Options{
		Root:  root,
		Kind:  kind,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", root, err)
	}
	return results, nil
}
