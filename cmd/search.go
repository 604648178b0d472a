package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/pkg/models"
	"github.com/mattsolo1/grove-folio/pkg/service"
)

func NewIndexCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "index <dir>",
		Short: "Rebuild the search index for a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			n, err := s.IndexFolder(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents\n", n)
			return nil
		},
	}
}

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var (
		searchKind  string
		searchLimit int
		reindex     bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "search <dir> <query>",
		Short: "Search documents",
		Long: `Search the text documents of a workspace. The index is built by
'folio index' or --reindex; it does not follow edits on its own.

Examples:
  folio search ~/notes "authentication"     # Search indexed documents
  folio search ~/notes todo --reindex       # Rescan first
  folio search ~/notes api --kind code      # Only code files`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			dir := args[0]
			query := strings.Join(args[1:], " ")

			kind := models.DocumentKind(searchKind)
			if kind != "" && !kind.Valid() {
				return fmt.Errorf("unknown kind %q", searchKind)
			}

			if reindex {
				if _, err := s.IndexFolder(dir); err != nil {
					return err
				}
			}

			results, err := s.SearchFolder(dir, query, kind, searchLimit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), results)
			}

			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results found")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Found %d results:\n\n", len(results))
			for i, r := range results {
				var prettyStr strings.Builder
				prettyStr.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.Title))
				prettyStr.WriteString(fmt.Sprintf("   %s\n", r.Path))
				if r.Snippet != "" {
					prettyStr.WriteString(fmt.Sprintf("   %s\n", r.Snippet))
				}
				fmt.Fprint(cmd.OutOrStdout(), prettyStr.String())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&searchKind, "kind", "k", "", "Filter by document kind (markdown, code)")
	cmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum results")
	cmd.Flags().BoolVar(&reindex, "reindex", false, "Rescan the workspace before searching")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
