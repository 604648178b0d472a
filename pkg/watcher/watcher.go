// Package watcher reports structural changes below a workspace root.
package watcher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-folio/pkg/classify"
	"github.com/mattsolo1/grove-folio/pkg/models"
)

// Watcher watches every non-hidden directory below a root and calls onChange,
// through a debouncer, when the workspace snapshot would change.
type Watcher struct {
	root      string
	debouncer *Debouncer
	onChange  func()
	logger    *logrus.Entry
	fsw       *fsnotify.Watcher
}

// New creates a Watcher for root. Nothing is delivered until Run is called.
func New(root string, debouncer *Debouncer, onChange func(), logger *logrus.Entry) (*Watcher, error) {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l) // Fallback to a null logger
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:      root,
		debouncer: debouncer,
		onChange:  onChange,
		logger:    logger.WithFields(logrus.Fields{"component": "watcher", "root": root}),
		fsw:       fsw,
	}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	return w, nil
}

// addRecursive watches dir and every non-hidden directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.WithError(err).WithField("path", path).Warn("Could not walk directory")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && IsNoise(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if path == dir {
				return err
			}
			w.logger.WithError(err).WithField("path", path).Warn("Could not watch directory")
		}
		return nil
	})
}

// Run delivers events until ctx is done. It closes the underlying watcher
// on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("Error watching workspace")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if IsNoise(name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.WithError(err).WithField("path", event.Name).Warn("Could not watch new directory")
			}
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
	case event.Has(fsnotify.Write):
		if !carriesContent(name) {
			return
		}
	default:
		return
	}

	w.logger.WithFields(logrus.Fields{
		"path": event.Name,
		"op":   event.Op.String(),
	}).Debug("Workspace changed")
	w.debouncer.Trigger(w.onChange)
}

// carriesContent reports whether a snapshot embeds the file's content, so a
// write to it changes the snapshot.
func carriesContent(name string) bool {
	kind, _ := classify.Classify(name)
	return classify.IsTextLike(kind) || kind == models.KindNotebook
}

// IsNoise reports whether name is a hidden entry or an editor's temporary file.
func IsNoise(name string) bool {
	switch {
	case strings.HasPrefix(name, "."):
		return true
	case strings.HasSuffix(name, "~"):
		return true
	case strings.HasSuffix(name, ".swp"), strings.HasSuffix(name, ".swx"):
		return true
	case name == "4913":
		return true
	}
	return false
}
