package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Backup and restore the entire store",
	}
	cmd.AddCommand(newDataExportCmd(app))
	cmd.AddCommand(newDataImportCmd(app))
	return cmd
}

func newDataExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize all data to a snapshot document",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			doc, err := st.ExportData(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}

			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), doc)
				return nil
			}
			if err := os.WriteFile(out, []byte(doc+"\n"), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"written": out}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the snapshot to a file instead of stdout")
	return cmd
}

func newDataImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot-file>",
		Short: "Destructively replace all data from a snapshot document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			res := st.ImportData(context.Background(), string(b))
			if err := writeOut(cmd, app, map[string]any{"data": res}); err != nil {
				return err
			}
			if !res.Success {
				// Nonzero exit without re-printing; the result above carries the message.
				return fmt.Errorf("import failed: %s", res.Error)
			}
			return nil
		},
	}
}
