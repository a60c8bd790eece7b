package report

import (
	"strconv"
	"strings"
	"time"

	"tempo-cli/internal/store"
)

const csvHeader = "task_id,task_title,start_iso,end_iso,duration_ms,duration_hhmmss"

// ExportCSV renders one row per matched entry (not aggregated), newest
// start first. Running entries use nowMs as their end. Title fields
// containing commas or quotes are quoted with embedded quotes doubled.
func ExportCSV(rows []store.EntryRow, f Filter, nowMs int64) string {
	matched := filterRows(rows, f)

	lines := make([]string, 0, len(matched)+1)
	lines = append(lines, csvHeader)

	for _, r := range matched {
		end := nowMs
		if r.Entry.EndAt != nil {
			end = *r.Entry.EndAt
		}
		dur := effectiveDuration(r, nowMs)

		title := ""
		if r.TaskTitle != nil {
			title = *r.TaskTitle
		}

		fields := []string{
			strconv.FormatInt(r.Entry.TaskID, 10),
			csvEscape(title),
			isoUTC(r.Entry.StartAt),
			isoUTC(end),
			strconv.FormatInt(dur, 10),
			FormatHHMMSS(dur),
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

// csvEscape quotes a field if it contains a comma or a quote, doubling any
// embedded quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// isoUTC formats ms since epoch as an ISO-8601 UTC timestamp with
// millisecond precision (2006-01-02T15:04:05.000Z).
func isoUTC(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}
