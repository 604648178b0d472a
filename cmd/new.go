package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/pkg/service"
)

func NewNewCmd(svc **service.Service) *cobra.Command {
	var (
		fromStdin  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "new <dir> [name]",
		Short: "Create a new note",
		Long: `Create a new empty note in a workspace directory. Existing files are never
overwritten: a taken name gets a -1, -2, ... suffix before its extension.

Examples:
  folio new ~/notes                    # Creates Untitled.md
  folio new ~/notes "meeting notes"    # Creates meeting notes.md
  folio new ~/notes script.py          # Keeps a known text extension

  # From stdin (auto-detected):
  echo "Quick thought" | folio new ~/notes idea`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			name := ""
			if len(args) > 1 {
				name = args[1]
			}

			var (
				content string
				piped   bool
			)
			if fromStdin || !cmd.Flags().Changed("stdin") {
				var err error
				content, piped, err = readPipedStdin()
				if err != nil {
					return err
				}
			}

			result, err := s.CreateMarkdownFile(args[0], name)
			if err != nil {
				return err
			}

			doc := result.FindByID(result.CreatedNoteID)
			if doc == nil {
				return fmt.Errorf("created note %s is missing from the workspace", result.CreatedNoteID)
			}

			if piped && content != "" {
				if err := s.SaveMarkdownFile(doc.AbsolutePath, content); err != nil {
					return fmt.Errorf("write note content: %w", err)
				}
				doc.Content = &content
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", doc.AbsolutePath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read content from stdin (auto-detected when piped)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the resulting snapshot as JSON")

	return cmd
}
