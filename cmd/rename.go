package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/pkg/service"
)

func NewRenameCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rename <root> <path> <new-name>",
		Short: "Rename a note within its directory",
		Long: `Rename a file in place. The new name is sanitized the same way as for
'folio new'. Renaming onto another existing file fails and leaves both
files untouched.

Examples:
  folio rename ~/notes ~/notes/Untitled.md "Project kickoff"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			result, err := s.RenameMarkdownFile(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			if result.PreviousPath == result.NextPath {
				fmt.Fprintf(cmd.OutOrStdout(), "Unchanged: %s\n", result.NextPath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed: %s -> %s\n", result.PreviousPath, result.NextPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the resulting snapshot as JSON")

	return cmd
}
