package report

import (
	"strings"
	"testing"
	"time"

	"tempo-cli/internal/model"
	"tempo-cli/internal/store"
)

func row(taskID int64, title string, coll *string, startAt int64, durMs int64) store.EntryRow {
	end := startAt + durMs
	return store.EntryRow{
		Entry: model.TimeEntry{
			TaskID:     taskID,
			StartAt:    startAt,
			EndAt:      &end,
			DurationMs: &durMs,
		},
		TaskTitle:  &title,
		Collection: coll,
	}
}

func runningRow(taskID int64, title string, startAt int64) store.EntryRow {
	return store.EntryRow{
		Entry:     model.TimeEntry{TaskID: taskID, StartAt: startAt},
		TaskTitle: &title,
	}
}

// localMs gives a start time well inside a local calendar day, so
// day-bucketing tests are timezone independent.
func localMs(day int, hour int) int64 {
	return time.Date(2026, 5, day, hour, 0, 0, 0, time.Local).UnixMilli()
}

func TestComputeStatsTotals(t *testing.T) {
	rows := []store.EntryRow{
		row(1, "alpha", nil, localMs(4, 10), 1000),
		row(1, "alpha", nil, localMs(4, 11), 3000),
	}
	s := ComputeStats(rows, Filter{}, localMs(4, 12))
	if s.TotalMs != 4000 {
		t.Fatalf("want total 4000, got %d", s.TotalMs)
	}
	if s.TotalDays != 1 {
		t.Fatalf("want 1 day, got %d", s.TotalDays)
	}
	if len(s.PerTask) != 1 || s.PerTask[0].DurationMs != 4000 {
		t.Fatalf("per-task mismatch: %+v", s.PerTask)
	}
}

func TestComputeStatsRunningEntry(t *testing.T) {
	start := localMs(4, 10)
	now := start + 5_000
	s := ComputeStats([]store.EntryRow{runningRow(1, "alpha", start)}, Filter{}, now)
	if s.TotalMs != 5_000 {
		t.Fatalf("running entry should count to now: got %d", s.TotalMs)
	}
}

func TestComputeStatsClampsNegative(t *testing.T) {
	start := localMs(4, 10)
	end := start - 1000
	dur := int64(-1000)
	r := store.EntryRow{Entry: model.TimeEntry{TaskID: 1, StartAt: start, EndAt: &end, DurationMs: &dur}}
	s := ComputeStats([]store.EntryRow{r}, Filter{}, start)
	if s.TotalMs != 0 {
		t.Fatalf("negative duration not clamped: %d", s.TotalMs)
	}
}

func TestComputeStatsDistinctDays(t *testing.T) {
	rows := []store.EntryRow{
		row(1, "alpha", nil, localMs(4, 9), 1000),
		row(1, "alpha", nil, localMs(4, 15), 1000),
		row(1, "alpha", nil, localMs(6, 9), 1000),
	}
	s := ComputeStats(rows, Filter{}, localMs(7, 0))
	if s.TotalDays != 2 {
		t.Fatalf("want 2 distinct days, got %d", s.TotalDays)
	}
}

func TestComputeStatsPerTaskOrder(t *testing.T) {
	rows := []store.EntryRow{
		row(3, "small", nil, localMs(4, 9), 1000),
		row(1, "big", nil, localMs(4, 10), 9000),
		row(2, "tied", nil, localMs(4, 11), 1000),
	}
	s := ComputeStats(rows, Filter{}, localMs(4, 12))
	if len(s.PerTask) != 3 {
		t.Fatalf("want 3 tasks, got %+v", s.PerTask)
	}
	if s.PerTask[0].TaskID != 1 {
		t.Fatalf("longest first: %+v", s.PerTask)
	}
	// Equal durations order by task id.
	if s.PerTask[1].TaskID != 2 || s.PerTask[2].TaskID != 3 {
		t.Fatalf("tie not broken by id: %+v", s.PerTask)
	}
}

func TestFilterClauses(t *testing.T) {
	work := "work"
	rows := []store.EntryRow{
		row(1, "in work", &work, 1_000, 10),
		row(2, "no collection", nil, 2_000, 10),
		row(3, "later", &work, 3_000, 10),
	}

	cases := []struct {
		name string
		f    Filter
		want []int64
	}{
		{"empty matches all", Filter{}, []int64{1, 2, 3}},
		{"all sentinel", Filter{Collection: CollectionAll}, []int64{1, 2, 3}},
		{"by task", Filter{TaskID: 2}, []int64{2}},
		{"by collection", Filter{Collection: "work"}, []int64{1, 3}},
		{"default collection", Filter{Collection: CollectionDefault}, []int64{2}},
		{"from inclusive", Filter{From: 2_000}, []int64{2, 3}},
		{"to inclusive", Filter{To: 2_000}, []int64{1, 2}},
		{"combined", Filter{Collection: "work", From: 2_000}, []int64{3}},
	}
	for _, tc := range cases {
		got := filterRows(rows, tc.f)
		var ids []int64
		for _, r := range got {
			ids = append(ids, r.Entry.TaskID)
		}
		if len(ids) != len(tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, ids)
		}
		for i := range ids {
			if ids[i] != tc.want[i] {
				t.Fatalf("%s: want %v, got %v", tc.name, tc.want, ids)
			}
		}
	}
}

func TestExportCSV(t *testing.T) {
	title := `Say "hi", now`
	out := ExportCSV([]store.EntryRow{row(7, title, nil, 0, 90_000)}, Filter{}, 100_000)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("want header + 1 row, got %q", out)
	}
	if lines[0] != "task_id,task_title,start_iso,end_iso,duration_ms,duration_hhmmss" {
		t.Fatalf("bad header: %q", lines[0])
	}
	wantRow := `7,"Say ""hi"", now",1970-01-01T00:00:00.000Z,1970-01-01T00:01:30.000Z,90000,00:01:30`
	if lines[1] != wantRow {
		t.Fatalf("bad row:\nwant %q\ngot  %q", wantRow, lines[1])
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatalf("trailing newline in %q", out)
	}
}

func TestExportCSVEmptyIsHeaderOnly(t *testing.T) {
	out := ExportCSV(nil, Filter{}, 0)
	if out != csvHeader {
		t.Fatalf("want bare header, got %q", out)
	}
}

func TestFormatHHMMSS(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00"},
		{999, "00:00:00"},
		{1000, "00:00:01"},
		{90_000, "00:01:30"},
		{3_661_000, "01:01:01"},
		{360_000_000, "100:00:00"},
		{-5_000, "00:00:00"},
	}
	for _, tc := range cases {
		if got := FormatHHMMSS(tc.ms); got != tc.want {
			t.Fatalf("FormatHHMMSS(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestHeatmap(t *testing.T) {
	rows := []store.EntryRow{
		row(1, "a", nil, localMs(6, 9), 2000),
		row(1, "a", nil, localMs(4, 9), 1000),
		row(2, "b", nil, localMs(4, 15), 3000),
	}
	days := Heatmap(rows, Filter{}, localMs(7, 0))
	if len(days) != 2 {
		t.Fatalf("want 2 days, got %+v", days)
	}
	// Ascending by date, totals merged per day.
	if days[0].Date != localDay(localMs(4, 9)) || days[0].DurationMs != 4000 {
		t.Fatalf("day 0 mismatch: %+v", days[0])
	}
	if days[1].Date != localDay(localMs(6, 9)) || days[1].DurationMs != 2000 {
		t.Fatalf("day 1 mismatch: %+v", days[1])
	}
}
