package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/mattsolo1/grove-folio/pkg/models"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printDocuments writes one row per document, with paths relative to root.
func printDocuments(w io.Writer, root string, docs []*models.DocumentRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tLANGUAGE\tTITLE\tPATH")
	for _, doc := range docs {
		rel, err := filepath.Rel(root, doc.AbsolutePath)
		if err != nil {
			rel = doc.AbsolutePath
		}
		lang := doc.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", doc.Kind, lang, doc.Title, rel)
	}
	return tw.Flush()
}

// readPipedStdin returns stdin's content when it is redirected, and ok=false
// when stdin is a terminal.
func readPipedStdin() (content string, ok bool, err error) {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return "", false, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", false, fmt.Errorf("read stdin: %w", err)
	}
	return string(data), true, nil
}
