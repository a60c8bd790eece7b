package report

import (
	"sort"
	"time"

	"tempo-cli/internal/store"
)

// Stats aggregates the filtered entry set. Running entries contribute
// their elapsed-so-far duration as of nowMs.
type Stats struct {
	// TotalMs is the sum of effective durations across matched entries.
	TotalMs int64 `json:"total_ms"`
	// TotalDays counts distinct local calendar days containing at least
	// one matched entry (by start time).
	TotalDays int `json:"total_days"`
	// PerTask has one row per distinct task among the matches, sorted
	// descending by duration.
	PerTask []TaskTotal `json:"per_task"`
}

type TaskTotal struct {
	TaskID     int64   `json:"task_id"`
	TaskTitle  *string `json:"task_title"`
	DurationMs int64   `json:"duration_ms"`
}

// effectiveDuration is end (or now, if running) minus start, clamped to ≥0
// so clock skew never produces negative totals.
func effectiveDuration(e store.EntryRow, nowMs int64) int64 {
	end := nowMs
	if e.Entry.EndAt != nil {
		end = *e.Entry.EndAt
	}
	d := end - e.Entry.StartAt
	if d < 0 {
		return 0
	}
	return d
}

func localDay(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02")
}

// ComputeStats aggregates rows matching f. It is a pure function of its
// inputs; nowMs supplies the clock for running entries.
func ComputeStats(rows []store.EntryRow, f Filter, nowMs int64) Stats {
	matched := filterRows(rows, f)

	var total int64
	byTask := map[int64]*TaskTotal{}
	var order []int64
	days := map[string]struct{}{}

	for _, r := range matched {
		dur := effectiveDuration(r, nowMs)
		total += dur

		tt := byTask[r.Entry.TaskID]
		if tt == nil {
			tt = &TaskTotal{TaskID: r.Entry.TaskID, TaskTitle: r.TaskTitle}
			byTask[r.Entry.TaskID] = tt
			order = append(order, r.Entry.TaskID)
		}
		tt.DurationMs += dur

		days[localDay(r.Entry.StartAt)] = struct{}{}
	}

	perTask := make([]TaskTotal, 0, len(order))
	for _, id := range order {
		perTask = append(perTask, *byTask[id])
	}
	sort.SliceStable(perTask, func(i, j int) bool {
		if perTask[i].DurationMs != perTask[j].DurationMs {
			return perTask[i].DurationMs > perTask[j].DurationMs
		}
		return perTask[i].TaskID < perTask[j].TaskID
	})

	return Stats{TotalMs: total, TotalDays: len(days), PerTask: perTask}
}
