package models

import "time"

// DocumentKind is the semantic category of a workspace file.
type DocumentKind string

const (
	KindMarkdown    DocumentKind = "markdown"
	KindPDF         DocumentKind = "pdf"
	KindImage       DocumentKind = "image"
	KindVideo       DocumentKind = "video"
	KindHTML        DocumentKind = "html"
	KindCode        DocumentKind = "code"
	KindNotebook    DocumentKind = "notebook"
	KindUnsupported DocumentKind = "unsupported"
)

// AllKinds lists every document kind in display order.
var AllKinds = []DocumentKind{
	KindMarkdown,
	KindPDF,
	KindImage,
	KindVideo,
	KindHTML,
	KindCode,
	KindNotebook,
	KindUnsupported,
}

// Valid reports whether k is one of the known kinds.
func (k DocumentKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// DocumentRecord is one classified file discovered in a workspace.
type DocumentRecord struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Kind                DocumentKind `json:"kind"`
	Language            string       `json:"language,omitempty"` // code kind only
	AbsolutePath        string       `json:"absolutePath"`
	ContainingDirectory string       `json:"containingDirectory"`
	Content             *string      `json:"content,omitempty"` // text-like kinds only, may be empty
	Notebook            *Notebook    `json:"notebook,omitempty"`
	Tags                []string     `json:"tags,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// Text returns the document content, or "" when the kind carries none.
func (d *DocumentRecord) Text() string {
	if d.Content == nil {
		return ""
	}
	return *d.Content
}

// Notebook is the structured payload of a Jupyter notebook document.
type Notebook struct {
	Language string         `json:"language,omitempty"`
	Metadata map[string]any `json:"metadata"`
	Cells    []NotebookCell `json:"cells"`
}

// NotebookCell is one cell of a notebook, with its source joined into a single string.
type NotebookCell struct {
	Index    int              `json:"index"`
	Type     string           `json:"type"`
	Source   string           `json:"source"`
	Metadata map[string]any   `json:"metadata"`
	Outputs  []NotebookOutput `json:"outputs"`
}

// NotebookOutput is the displayable part of a code cell output.
type NotebookOutput struct {
	Type           string            `json:"type"`
	Name           string            `json:"name,omitempty"` // stream name (stdout, stderr)
	Text           string            `json:"text,omitempty"`
	Data           map[string]string `json:"data,omitempty"` // keyed by MIME type
	ExecutionCount *int              `json:"executionCount,omitempty"`
	ErrorName      string            `json:"errorName,omitempty"`
	ErrorValue     string            `json:"errorValue,omitempty"`
	Traceback      []string          `json:"traceback,omitempty"`
}
