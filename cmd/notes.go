package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/pkg/frontmatter"
	"github.com/mattsolo1/grove-folio/pkg/models"
	"github.com/mattsolo1/grove-folio/pkg/service"
)

func NewNotesCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage the application note collection",
		Long: `Manage notes stored in the application data directory (notes.json),
independent of any workspace.`,
	}

	cmd.AddCommand(newNotesListCmd(svc))
	cmd.AddCommand(newNotesAddCmd(svc))
	cmd.AddCommand(newNotesInitCmd(svc))

	return cmd
}

func newNotesListCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List stored notes",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			notes, err := s.Store.LoadNotes()
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), notes)
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes stored")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tUPDATED")
			for _, note := range notes {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", note.ID, note.Title, note.UpdatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output notes as JSON")

	return cmd
}

func newNotesAddCmd(svc **service.Service) *cobra.Command {
	var (
		content string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note to the collection",
		Long: `Append a markdown note to the collection. Content comes from --content or,
when omitted, from piped stdin.

Examples:
  folio notes add "Groceries" --content "- milk" --tag home
  cat draft.md | folio notes add "Draft"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if !cmd.Flags().Changed("content") {
				piped, ok, err := readPipedStdin()
				if err != nil {
					return err
				}
				if ok {
					content = piped
				}
			}

			notes, err := s.Store.LoadNotes()
			if err != nil {
				return err
			}

			notes = append(notes, &models.StoredNote{
				Title:   args[0],
				Kind:    models.KindMarkdown,
				Content: content,
				Tags:    frontmatter.MergeTags(tags),
			})
			saved, err := s.Store.SaveNotes(notes)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", saved[len(saved)-1].ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Note content")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")

	return cmd
}

func newNotesInitCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and an empty collection if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if err := s.Store.Initialize(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Data directory: %s\n", s.Store.Dir())
			return nil
		},
	}
}
