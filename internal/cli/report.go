package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tempo-cli/internal/report"
	"tempo-cli/internal/store"

	"github.com/spf13/cobra"
)

const defaultReportRangeDays = 7

type reportFlags struct {
	taskID     int64
	collection string
	from       string
	to         string
}

func (rf *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&rf.taskID, "task", 0, "Restrict to one task id")
	cmd.Flags().StringVar(&rf.collection, "collection", report.CollectionAll, `Collection filter: "all", "default", or a name`)
	cmd.Flags().StringVar(&rf.from, "from", "", "Start date (YYYY-MM-DD, inclusive; default: last week)")
	cmd.Flags().StringVar(&rf.to, "to", "", "End date (YYYY-MM-DD, inclusive)")
}

// filter builds the report filter. When neither bound is given the window
// defaults to the last reportRangeDays (config) ending today, matching the
// report screen's default.
func (rf *reportFlags) filter() (report.Filter, error) {
	f := report.Filter{TaskID: rf.taskID, Collection: rf.collection}

	if rf.from == "" && rf.to == "" {
		days := defaultReportRangeDays
		if cfg, err := store.LoadConfig(); err == nil && cfg.ReportRangeDays > 0 {
			days = cfg.ReportRangeDays
		}
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		f.From = today.AddDate(0, 0, -(days - 1)).UnixMilli()
		return f, nil
	}

	if rf.from != "" {
		d, err := time.ParseInLocation("2006-01-02", rf.from, time.Local)
		if err != nil {
			return report.Filter{}, fmt.Errorf("invalid --from date: %w", err)
		}
		f.From = d.UnixMilli()
	}
	if rf.to != "" {
		d, err := time.ParseInLocation("2006-01-02", rf.to, time.Local)
		if err != nil {
			return report.Filter{}, fmt.Errorf("invalid --to date: %w", err)
		}
		// Inclusive end of day.
		f.To = d.AddDate(0, 0, 1).UnixMilli() - 1
	}
	if f.From != 0 && f.To != 0 && f.To < f.From {
		return report.Filter{}, errors.New("--to is before --from")
	}
	return f, nil
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Time aggregates over filtered entries",
	}
	cmd.AddCommand(newReportStatsCmd(app))
	cmd.AddCommand(newReportCSVCmd(app))
	cmd.AddCommand(newReportHeatmapCmd(app))
	return cmd
}

func newReportStatsCmd(app *App) *cobra.Command {
	rf := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Total time, distinct days, and per-task totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rf.filter()
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			rows, err := st.EntryRows(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			stats := report.ComputeStats(rows, f, st.Now())
			return writeOut(cmd, app, map[string]any{"data": stats})
		},
	}
	rf.register(cmd)
	return cmd
}

func newReportCSVCmd(app *App) *cobra.Command {
	rf := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export matched entries as CSV (one row per entry)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rf.filter()
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			rows, err := st.EntryRows(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			// CSV goes to stdout raw; it is the machine-readable output here.
			fmt.Fprintln(cmd.OutOrStdout(), report.ExportCSV(rows, f, st.Now()))
			return nil
		},
	}
	rf.register(cmd)
	return cmd
}

func newReportHeatmapCmd(app *App) *cobra.Command {
	rf := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Per-day totals for the productivity heatmap",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rf.filter()
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			rows, err := st.EntryRows(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			days := report.Heatmap(rows, f, st.Now())
			return writeOut(cmd, app, map[string]any{"data": days})
		},
	}
	rf.register(cmd)
	return cmd
}
