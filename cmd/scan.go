package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/pkg/service"
	"github.com/mattsolo1/grove-folio/pkg/tree"
)

func NewScanCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Scan a workspace and list its documents",
		Long: `Scan a directory and list every document found in it.

Examples:
  folio scan ~/notes           # Table of documents
  folio scan ~/notes --json    # Full snapshot: tree and documents`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			snap, err := s.LoadFolderNotes(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), snap)
			}

			if len(snap.Notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No documents found")
				return nil
			}
			return printDocuments(cmd.OutOrStdout(), snap.Tree.Path, snap.Notes)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the snapshot as JSON")

	return cmd
}

func NewTreeCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <dir>",
		Short: "Print the display tree of a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			snap, err := s.LoadFolderNotes(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tree.Render(snap.Tree))
			return nil
		},
	}
}
