package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/pkg/models"
	"github.com/mattsolo1/grove-folio/pkg/service"
)

func NewImportCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "import <pdf>",
		Short: "Copy a PDF into the application blob store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			blob, err := s.Store.ImportBlob(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), blob)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s (%d bytes, sha256 %s)\n",
				blob.OriginalName, blob.StoredName, blob.Size, blob.SHA256)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output blob metadata as JSON")

	return cmd
}

func NewPDFCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <path-or-stored-name>",
		Short: "Print a PDF as a data URI",
		Long: `Print a PDF as a data:application/pdf;base64 URI. The argument is either a
path to a PDF file or the stored name of an imported blob ({uuid}.pdf).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ref := args[0]

			if filepath.Base(ref) == ref {
				uri, err := s.Store.ReadBlob(ref)
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), uri)
					return nil
				}
				if !errors.Is(err, models.ErrInvalidBlobRef) {
					return err
				}
			}

			uri, ok := s.ReadPDFAsDataURI(ref)
			if !ok {
				return fmt.Errorf("%s is not a readable PDF file", ref)
			}
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		},
	}
}
