package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-folio/pkg/search"
	"github.com/mattsolo1/grove-folio/pkg/store"
	"github.com/mattsolo1/grove-folio/pkg/workspace"
)

// IndexFile is the search database inside the data directory.
const IndexFile = "index.db"

// Service is the core workspace service
type Service struct {
	Config *Config
	Logger *logrus.Entry
	Store  *store.Store
	Index  *search.Index
}

// Config holds service configuration
type Config struct {
	// DataDir is the application-private directory for notes.json, pdfs/ and index.db.
	DataDir string
	// DefaultExtension is appended to created or renamed names that lack a text extension.
	DefaultExtension string
	// Locale selects the collation used to order siblings. Empty uses the root collation.
	Locale string
}

// New creates a new workspace service
func New(config *Config, logger *logrus.Entry) (*Service, error) {
	if config == nil {
		config = &Config{}
	}
	if config.DefaultExtension == "" {
		config.DefaultExtension = workspace.DefaultExtension
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l) // Fallback to a null logger
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	st := store.New(config.DataDir, logger)
	if err := st.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	index, err := search.NewIndex(filepath.Join(config.DataDir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Service{
		Config: config,
		Logger: logger,
		Store:  st,
		Index:  index,
	}, nil
}

// Close releases the search index.
func (s *Service) Close() error {
	if s.Index == nil {
		return nil
	}
	return s.Index.Close()
}
