package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/cmd"
	"github.com/mattsolo1/grove-folio/cmd/config"
	"github.com/mattsolo1/grove-folio/pkg/service"
)

var (
	svc      *service.Service
	settings *config.Settings
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "Browse, edit and search folders of notes and documents",
		Long: `folio treats any directory as a workspace: it scans it into a tree of
classified documents (markdown, code, notebooks, PDFs, media), creates and
renames notes without clobbering existing files, and keeps an application
note collection and PDF store in its data directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// This runs once before any subcommand
		if c.Name() == "version" {
			return nil
		}

		if err := config.InitConfig(); err != nil {
			return err
		}
		var err error
		settings, err = config.Load()
		if err != nil {
			return err
		}

		logger, err := config.NewLogger(settings.LogLevel)
		if err != nil {
			return err
		}
		logger.WithField("data_dir", settings.DataDir).Debug("Loaded configuration")

		svc, err = config.InitService(settings, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		return nil
	}

	rootCmd.PersistentPostRunE = func(c *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		return svc.Close()
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewScanCmd(&svc))
	rootCmd.AddCommand(cmd.NewTreeCmd(&svc))
	rootCmd.AddCommand(cmd.NewNewCmd(&svc))
	rootCmd.AddCommand(cmd.NewRenameCmd(&svc))
	rootCmd.AddCommand(cmd.NewSaveCmd(&svc))
	rootCmd.AddCommand(cmd.NewPDFCmd(&svc))
	rootCmd.AddCommand(cmd.NewImportCmd(&svc))
	rootCmd.AddCommand(cmd.NewNotesCmd(&svc))
	rootCmd.AddCommand(cmd.NewIndexCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewWatchCmd(&svc, &settings))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
