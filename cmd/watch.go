package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-folio/cmd/config"
	"github.com/mattsolo1/grove-folio/pkg/service"
	"github.com/mattsolo1/grove-folio/pkg/watcher"
	"github.com/mattsolo1/grove-folio/pkg/workspace"
)

func NewWatchCmd(svc **service.Service, settings **config.Settings) *cobra.Command {
	var (
		jsonOutput bool
		debounce   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Rescan a workspace whenever it changes",
		Long: `Watch a workspace and print a fresh snapshot after every burst of changes.
With --json each snapshot is written as one line of JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			root, err := workspace.ResolveRoot(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("debounce") {
				debounce = (*settings).Watch.Debounce
			}

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			emit := func() {
				mu.Lock()
				defer mu.Unlock()

				snap, err := s.LoadFolderNotes(root)
				if err != nil {
					s.Logger.WithError(err).WithField("root", root).Warn("Rescan failed")
					return
				}
				if jsonOutput {
					data, err := json.Marshal(snap)
					if err != nil {
						s.Logger.WithError(err).Warn("Could not encode snapshot")
						return
					}
					fmt.Fprintln(out, string(data))
					return
				}
				fmt.Fprintf(out, "[%s] %s: %d documents\n", time.Now().Format(time.TimeOnly), root, len(snap.Notes))
			}

			debouncer := watcher.NewDebouncer(debounce)
			defer debouncer.Stop()

			w, err := watcher.New(root, debouncer, emit, s.Logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			emit()
			return w.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write each snapshot as a line of JSON")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Quiet period before rescanning")

	return cmd
}
