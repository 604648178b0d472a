package service

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/djherbis/times"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-folio/pkg/classify"
	"github.com/mattsolo1/grove-folio/pkg/frontmatter"
	"github.com/mattsolo1/grove-folio/pkg/ident"
	"github.com/mattsolo1/grove-folio/pkg/models"
	"github.com/mattsolo1/grove-folio/pkg/tree"
	"github.com/mattsolo1/grove-folio/pkg/workspace"
)

// builder holds the state of a single scan. It is discarded afterwards.
type builder struct {
	logger  *logrus.Entry
	sorter  *tree.Sorter
	records map[string]*models.DocumentRecord
}

// BuildTree scans dir and returns its display tree and the documents found
// in it, in tree pre-order. Hidden entries and symlinks are skipped. Files
// that cannot be read or decoded appear in the tree without a document.
func (s *Service) BuildTree(dir string) (*tree.Node, []*models.DocumentRecord, error) {
	root, err := workspace.ResolveRoot(dir)
	if err != nil {
		return nil, nil, err
	}

	b := &builder{
		logger:  s.Logger.WithField("root", root),
		sorter:  tree.NewSorter(s.Config.Locale),
		records: make(map[string]*models.DocumentRecord),
	}

	rootNode := &tree.Node{
		ID:       ident.Node(root),
		Name:     filepath.Base(root),
		Kind:     tree.KindDirectory,
		Path:     root,
		Children: []*tree.Node{},
	}
	b.readDir(rootNode)

	docs := make([]*models.DocumentRecord, 0, len(b.records))
	rootNode.Walk(func(n *tree.Node) bool {
		if rec, ok := b.records[n.Path]; ok && n.DocumentID != "" {
			docs = append(docs, rec)
		}
		return true
	})

	b.logger.WithFields(logrus.Fields{
		"documents": len(docs),
	}).Debug("Scanned workspace")
	return rootNode, docs, nil
}

// readDir fills n.Children from the directory at n.Path. A directory that
// cannot be listed is kept with no children.
func (b *builder) readDir(n *tree.Node) {
	entries, err := os.ReadDir(n.Path)
	if err != nil {
		b.logger.WithError(err).WithField("path", n.Path).Warn("Could not read directory")
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(n.Path, name)
		mode := entry.Type()

		switch {
		case mode&os.ModeSymlink != 0:
			continue
		case entry.IsDir():
			child := &tree.Node{
				ID:       ident.Node(path),
				Name:     name,
				Kind:     tree.KindDirectory,
				Path:     path,
				Children: []*tree.Node{},
			}
			b.readDir(child)
			n.Children = append(n.Children, child)
		case mode.IsRegular():
			if child := b.fileNode(n.Path, path, name); child != nil {
				n.Children = append(n.Children, child)
			}
		default:
			b.logger.WithField("path", path).Debug("Skipping special file")
		}
	}

	b.sorter.Sort(n.Children)
}

// fileNode classifies the file at path and records its document, if any.
// It returns nil when the file cannot be stat'ed.
func (b *builder) fileNode(dir, path, name string) *tree.Node {
	ts, err := times.Stat(path)
	if err != nil {
		b.logger.WithError(err).WithField("path", path).Warn("Could not stat file")
		return nil
	}

	title, ext := workspace.SplitName(name)
	node := &tree.Node{
		ID:        ident.Node(path),
		Name:      name,
		Kind:      tree.KindFile,
		Path:      path,
		Extension: strings.ToLower(strings.TrimPrefix(ext, ".")),
	}

	kind, language := classify.Classify(name)
	if kind == models.KindUnsupported {
		return node
	}

	rec := &models.DocumentRecord{
		ID:                  ident.Document(path),
		Title:               title,
		Kind:                kind,
		Language:            language,
		AbsolutePath:        path,
		ContainingDirectory: dir,
		CreatedAt:           createdAt(ts),
		UpdatedAt:           ts.ModTime().UTC(),
	}

	switch {
	case classify.IsTextLike(kind):
		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.WithError(err).WithField("path", path).Warn("Could not read file")
			return node
		}
		if !utf8.Valid(data) {
			b.logger.WithField("path", path).Warn("File is not valid UTF-8")
			return node
		}
		content := string(data)
		rec.Content = &content
		if kind == models.KindMarkdown {
			rec.Tags = b.tags(path, content)
		}
	case kind == models.KindNotebook:
		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.WithError(err).WithField("path", path).Warn("Could not read file")
			return node
		}
		nb, err := classify.ParseNotebook(data)
		if err != nil {
			b.logger.WithError(err).WithField("path", path).Warn("Could not parse notebook")
			return node
		}
		rec.Notebook = nb
	}

	node.DocumentID = rec.ID
	b.records[path] = rec
	return node
}

func (b *builder) tags(path, content string) []string {
	fm, _, err := frontmatter.Parse(content)
	if err != nil {
		b.logger.WithError(err).WithField("path", path).Debug("Ignoring malformed frontmatter")
		return nil
	}
	if fm == nil || len(fm.Tags) == 0 {
		return nil
	}
	return fm.Tags
}

// createdAt prefers the birth time, then the inode change time, then the
// modification time.
func createdAt(ts times.Timespec) time.Time {
	switch {
	case ts.HasBirthTime():
		return ts.BirthTime().UTC()
	case ts.HasChangeTime():
		return ts.ChangeTime().UTC()
	default:
		return ts.ModTime().UTC()
	}
}
