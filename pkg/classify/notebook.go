package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattsolo1/grove-folio/pkg/models"
)

var errNoCells = errors.New("notebook has no cells list")

type rawNotebook struct {
	Metadata map[string]any `json:"metadata"`
	Cells    []rawCell      `json:"cells"`
}

type rawCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
	Metadata map[string]any  `json:"metadata"`
	Outputs  []rawOutput     `json:"outputs"`
}

type rawOutput struct {
	OutputType     string                     `json:"output_type"`
	Name           string                     `json:"name"`
	Text           json.RawMessage            `json:"text"`
	Data           map[string]json.RawMessage `json:"data"`
	ExecutionCount *int                       `json:"execution_count"`
	EName          string                     `json:"ename"`
	EValue         string                     `json:"evalue"`
	Traceback      []string                   `json:"traceback"`
}

// ParseNotebook decodes a Jupyter notebook. Cell sources stored as a list of
// lines are joined without separators, as nbformat stores the newlines inside
// the lines.
func ParseNotebook(data []byte) (*models.Notebook, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	if raw.Cells == nil {
		return nil, errNoCells
	}

	nb := &models.Notebook{
		Language: notebookLanguage(raw.Metadata),
		Metadata: raw.Metadata,
		Cells:    make([]models.NotebookCell, 0, len(raw.Cells)),
	}
	if nb.Metadata == nil {
		nb.Metadata = map[string]any{}
	}

	for i, c := range raw.Cells {
		source, err := multiline(c.Source)
		if err != nil {
			return nil, fmt.Errorf("cell %d source: %w", i, err)
		}
		cell := models.NotebookCell{
			Index:    i,
			Type:     c.CellType,
			Source:   source,
			Metadata: c.Metadata,
			Outputs:  []models.NotebookOutput{},
		}
		if cell.Metadata == nil {
			cell.Metadata = map[string]any{}
		}
		for j, o := range c.Outputs {
			out, err := convertOutput(o)
			if err != nil {
				return nil, fmt.Errorf("cell %d output %d: %w", i, j, err)
			}
			cell.Outputs = append(cell.Outputs, out)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

// notebookLanguage reads metadata.language_info.name, falling back to the kernelspec.
func notebookLanguage(metadata map[string]any) string {
	if info, ok := metadata["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return name
		}
	}
	if spec, ok := metadata["kernelspec"].(map[string]any); ok {
		if lang, ok := spec["language"].(string); ok {
			return lang
		}
	}
	return ""
}

func convertOutput(o rawOutput) (models.NotebookOutput, error) {
	out := models.NotebookOutput{
		Type:           o.OutputType,
		Name:           o.Name,
		ExecutionCount: o.ExecutionCount,
	}
	switch o.OutputType {
	case "stream":
		text, err := multiline(o.Text)
		if err != nil {
			return out, err
		}
		out.Text = text
	case "execute_result", "display_data":
		if len(o.Data) > 0 {
			out.Data = make(map[string]string, len(o.Data))
			for mime, value := range o.Data {
				text, err := multiline(value)
				if err != nil {
					// Structured payloads such as application/json are kept verbatim.
					text = string(value)
				}
				out.Data[mime] = text
			}
		}
		out.Text = out.Data["text/plain"]
	case "error":
		out.ErrorName = o.EName
		out.ErrorValue = o.EValue
		out.Traceback = o.Traceback
	}
	return out, nil
}

// multiline decodes an nbformat multiline string: either a string or a list of strings.
func multiline(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("expected string or list of strings: %w", err)
	}
	return strings.Join(lines, ""), nil
}
