package tui

import (
	"fmt"
	"strings"
	"time"

	"tempo-cli/internal/report"

	xansi "github.com/charmbracelet/x/ansi"
)

const heatmapDays = 84

func (m appModel) viewReport() string {
	var b strings.Builder

	s := m.reportStats
	b.WriteString(styleSection.Render("Last 7 days") + "\n")
	b.WriteString(fmt.Sprintf("  %s tracked across %d day(s)\n", report.FormatHHMMSS(s.TotalMs), s.TotalDays))

	if len(s.PerTask) > 0 {
		b.WriteString("\n")
		barWidth := m.width - 40
		if barWidth < 10 {
			barWidth = 10
		}
		max := s.PerTask[0].DurationMs
		for _, pt := range s.PerTask {
			title := "(deleted task)"
			if pt.TaskTitle != nil {
				title = *pt.TaskTitle
			}
			title = xansi.Truncate(title, 24, "…")
			bar := 0
			if max > 0 {
				bar = int(pt.DurationMs * int64(barWidth) / max)
			}
			if bar < 1 && pt.DurationMs > 0 {
				bar = 1
			}
			b.WriteString(fmt.Sprintf("  %-24s %s %s\n",
				title,
				styleSection.Render(strings.Repeat("█", bar)),
				report.FormatHHMMSS(pt.DurationMs)))
		}
	}

	b.WriteString("\n" + styleSection.Render("Last 12 weeks") + "\n")
	b.WriteString(m.viewHeatmap())
	return b.String()
}

// viewHeatmap lays the per-day totals out as a weekday-by-week grid,
// most recent week in the rightmost column.
func (m appModel) viewHeatmap() string {
	byDay := make(map[string]int64, len(m.reportDays))
	for _, d := range m.reportDays {
		byDay[d.Date] = d.DurationMs
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Pad both ends so every column is a full Sunday-to-Saturday week.
	first := today.AddDate(0, 0, -(heatmapDays - 1))
	lead := int(first.Weekday())
	trailing := 6 - int(today.Weekday())
	start := first.AddDate(0, 0, -lead)

	var rows [7][]string
	for d := 0; d < lead+heatmapDays+trailing; d++ {
		day := start.AddDate(0, 0, d)
		wd := int(day.Weekday())
		if day.Before(first) || day.After(today) {
			rows[wd] = append(rows[wd], " ")
			continue
		}
		ms := byDay[day.Format("2006-01-02")]
		rows[wd] = append(rows[wd], heatStyle(ms).Render("■"))
	}

	labels := [7]string{"   ", "Mon", "   ", "Wed", "   ", "Fri", "   "}
	var b strings.Builder
	for wd := 0; wd < 7; wd++ {
		b.WriteString("  " + styleFooter.Render(labels[wd]) + " " + strings.Join(rows[wd], " ") + "\n")
	}
	return b.String()
}
