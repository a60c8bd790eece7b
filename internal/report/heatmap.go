package report

import (
	"sort"

	"tempo-cli/internal/store"
)

// DayTotal is one cell of the productivity heatmap: total effective
// duration for one local calendar day.
type DayTotal struct {
	// Date is the local calendar day, YYYY-MM-DD.
	Date       string `json:"date"`
	DurationMs int64  `json:"duration_ms"`
}

// Heatmap buckets the filtered entries' effective durations by the local
// calendar day of their start time, oldest day first. Days with no matched
// entries are absent; renderers fill the gaps.
func Heatmap(rows []store.EntryRow, f Filter, nowMs int64) []DayTotal {
	matched := filterRows(rows, f)

	byDay := map[string]int64{}
	for _, r := range matched {
		byDay[localDay(r.Entry.StartAt)] += effectiveDuration(r, nowMs)
	}

	out := make([]DayTotal, 0, len(byDay))
	for day, dur := range byDay {
		out = append(out, DayTotal{Date: day, DurationMs: dur})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
