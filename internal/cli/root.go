package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tempo-cli/internal/format"
	"tempo-cli/internal/store"
	"tempo-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tempo",
		Short:        "Tempo (local-first) time tracker CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tempo

  # Scriptable commands
  tempo tasks create --title "Write report" --collection work
  tempo timer start 1
  tempo report stats --collection work

  # Backup and restore
  tempo data export --out backup.json
  tempo data import backup.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TEMPO_DIR", ""), "Path to data dir (default: ~/.tempo, or dataDir from config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newCollectionsCmd(app))
	cmd.AddCommand(newTimerCmd(app))
	cmd.AddCommand(newSubtasksCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newDataCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	st, err := openStore(app)
	if err != nil {
		return err
	}
	defer st.Close()
	return tui.Run(st)
}

// openStore resolves the data dir (flag > TEMPO_DIR > config dataDir >
// ~/.tempo) and opens the store. An open failure is fatal to the command.
func openStore(app *App) (*store.Store, error) {
	dir := app.Dir
	if dir == "" {
		if cfg, err := store.LoadConfig(); err == nil && cfg.DataDir != "" {
			dir = cfg.DataDir
		}
	}
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	app.Dir = dir
	return store.Open(context.Background(), dir)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
