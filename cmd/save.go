package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/pkg/service"
)

func NewSaveCmd(svc **service.Service) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "Replace the content of a note",
		Long: `Overwrite a file with new content, creating it and its parent directories
if needed. Content comes from --content or, when omitted, from stdin.

Examples:
  folio save ~/notes/todo.md --content "- [ ] ship it"
  pbpaste | folio save ~/notes/clip.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if !cmd.Flags().Changed("content") {
				piped, ok, err := readPipedStdin()
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no content: pass --content or pipe it on stdin")
				}
				content = piped
			}

			if err := s.SaveMarkdownFile(args[0], content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "New file content")

	return cmd
}
