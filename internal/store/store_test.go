package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// testStore opens a store in a temp dir with a fixed clock the test can
// advance.
func testStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	st, err := Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	st.SetNow(clk.now)
	return st, clk
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func strp(s string) *string { return &s }

func TestTaskLifecycle(t *testing.T) {
	st, clk := testStore(t)
	ctx := context.Background()

	a, err := st.CreateTask(ctx, "write report", strp("for Q3"), strp("work"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 || a.Status != "active" || a.CreatedAt != st.Now() {
		t.Fatalf("unexpected task: %+v", a)
	}
	if a.Description == nil || *a.Description != "for Q3" {
		t.Fatalf("description not stored: %+v", a)
	}

	clk.advance(time.Minute)
	b, err := st.CreateTask(ctx, "triage inbox", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Description != nil || b.Collection != nil {
		t.Fatalf("nil fields not preserved: %+v", b)
	}

	tasks, err := st.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != b.ID || tasks[1].ID != a.ID {
		t.Fatalf("want newest first, got %+v", tasks)
	}

	upd, err := st.UpdateTaskStatus(ctx, a.ID, "completed")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if upd.Status != "completed" {
		t.Fatalf("status not updated: %+v", upd)
	}

	var nf NotFoundError
	if _, err := st.UpdateTaskStatus(ctx, 9999, "archived"); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}

	if err := st.DeleteTask(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// A second delete of the same id is a silent no-op.
	if err := st.DeleteTask(ctx, a.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	tasks, _ = st.ListTasks(ctx)
	if len(tasks) != 1 {
		t.Fatalf("task not deleted: %+v", tasks)
	}
}

func TestCreatedAtTieBreaksOnID(t *testing.T) {
	st, _ := testStore(t)
	ctx := context.Background()

	// Same clock tick for both: ordering must fall back to id.
	a, _ := st.CreateTask(ctx, "first", nil, nil)
	b, _ := st.CreateTask(ctx, "second", nil, nil)

	tasks, err := st.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks[0].ID != b.ID || tasks[1].ID != a.ID {
		t.Fatalf("tie not broken by id desc: %+v", tasks)
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	st, clk := testStore(t)
	ctx := context.Background()

	task, _ := st.CreateTask(ctx, "parent", nil, nil)
	other, _ := st.CreateTask(ctx, "other", nil, nil)

	if _, err := st.CreateSubtask(ctx, task.ID, "step one"); err != nil {
		t.Fatalf("subtask: %v", err)
	}
	keep, _ := st.CreateSubtask(ctx, other.ID, "keep me")

	entry, _ := st.StartTimer(ctx, task.ID)
	clk.advance(time.Second)
	if _, err := st.StopTimer(ctx, entry.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if err := st.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, _ := st.ListTimeEntriesByTask(ctx, task.ID)
	if len(entries) != 0 {
		t.Fatalf("entries survived cascade: %+v", entries)
	}
	subs, _ := st.ListSubtasksByTask(ctx, task.ID)
	if len(subs) != 0 {
		t.Fatalf("subtasks survived cascade: %+v", subs)
	}
	subs, _ = st.ListSubtasksByTask(ctx, other.ID)
	if len(subs) != 1 || subs[0].ID != keep.ID {
		t.Fatalf("unrelated subtask lost: %+v", subs)
	}
}

func TestDeleteTaskCascadesOnFreshConnection(t *testing.T) {
	st, _ := testStore(t)
	ctx := context.Background()

	task, _ := st.CreateTask(ctx, "parent", nil, nil)
	if _, err := st.CreateSubtask(ctx, task.ID, "step"); err != nil {
		t.Fatalf("subtask: %v", err)
	}
	if _, err := st.StartTimer(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Check out the pool's existing connection so the delete runs on a
	// freshly opened one, which must carry foreign_keys too.
	conn, err := st.db.Conn(ctx)
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer conn.Close()

	if err := st.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var orphans int
	if err := st.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM subtasks WHERE task_id = ?) + (SELECT COUNT(*) FROM time_entries WHERE task_id = ?)`,
		task.ID, task.ID).Scan(&orphans); err != nil {
		t.Fatalf("count: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("cascade skipped on fresh connection: %d orphaned rows", orphans)
	}
}

func TestTimerStartStop(t *testing.T) {
	st, clk := testStore(t)
	ctx := context.Background()

	task, _ := st.CreateTask(ctx, "tracked", nil, nil)

	e, err := st.StartTimer(ctx, task.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.EndAt != nil || e.DurationMs != nil || !e.Running() {
		t.Fatalf("new entry should be running: %+v", e)
	}

	clk.advance(90 * time.Second)
	stopped, err := st.StopTimer(ctx, e.ID)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.DurationMs == nil || *stopped.DurationMs != 90_000 {
		t.Fatalf("want 90000ms, got %+v", stopped.DurationMs)
	}
	if stopped.EndAt == nil || *stopped.EndAt != stopped.StartAt+90_000 {
		t.Fatalf("end_at mismatch: %+v", stopped)
	}

	var as AlreadyStoppedError
	if _, err := st.StopTimer(ctx, e.ID); !errors.As(err, &as) {
		t.Fatalf("want AlreadyStoppedError, got %v", err)
	}
	var nf NotFoundError
	if _, err := st.StopTimer(ctx, 9999); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestStopTimerRejectionLeavesDuration(t *testing.T) {
	st, clk := testStore(t)
	ctx := context.Background()

	task, _ := st.CreateTask(ctx, "tracked", nil, nil)
	e, _ := st.StartTimer(ctx, task.ID)
	clk.advance(time.Minute)
	if _, err := st.StopTimer(ctx, e.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// A late second stop must not win and re-stamp the frozen duration.
	clk.advance(time.Hour)
	var as AlreadyStoppedError
	if _, err := st.StopTimer(ctx, e.ID); !errors.As(err, &as) {
		t.Fatalf("want AlreadyStoppedError, got %v", err)
	}

	entries, _ := st.ListTimeEntriesByTask(ctx, task.ID)
	if len(entries) != 1 || entries[0].DurationMs == nil || *entries[0].DurationMs != 60_000 {
		t.Fatalf("duration re-stamped: %+v", entries)
	}
}

func TestStartTimerStopsPreviousForTask(t *testing.T) {
	st, clk := testStore(t)
	ctx := context.Background()

	task, _ := st.CreateTask(ctx, "tracked", nil, nil)

	first, _ := st.StartTimer(ctx, task.ID)
	clk.advance(time.Minute)
	second, err := st.StartTimer(ctx, task.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	entries, _ := st.ListTimeEntriesByTask(ctx, task.ID)
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %+v", entries)
	}
	for _, e := range entries {
		if e.ID == first.ID {
			if e.Running() || e.DurationMs == nil || *e.DurationMs != 60_000 {
				t.Fatalf("first entry not auto-stopped: %+v", e)
			}
		}
	}

	running, err := st.RunningEntry(ctx, task.ID)
	if err != nil {
		t.Fatalf("running: %v", err)
	}
	if running == nil || running.ID != second.ID {
		t.Fatalf("want entry %d running, got %+v", second.ID, running)
	}
}

func TestSubtasks(t *testing.T) {
	st, _ := testStore(t)
	ctx := context.Background()

	task, _ := st.CreateTask(ctx, "parent", nil, nil)
	a, _ := st.CreateSubtask(ctx, task.ID, "first")
	b, _ := st.CreateSubtask(ctx, task.ID, "second")

	subs, err := st.ListSubtasksByTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Subtasks read oldest first, unlike tasks.
	if len(subs) != 2 || subs[0].ID != a.ID || subs[1].ID != b.ID {
		t.Fatalf("want creation order, got %+v", subs)
	}

	upd, err := st.UpdateSubtaskStatus(ctx, a.ID, "completed")
	if err != nil || upd.Status != "completed" {
		t.Fatalf("update: %v %+v", err, upd)
	}
	var nf NotFoundError
	if _, err := st.UpdateSubtaskStatus(ctx, 9999, "completed"); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}

	if err := st.DeleteSubtask(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteSubtask(ctx, b.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestCollections(t *testing.T) {
	st, _ := testStore(t)
	ctx := context.Background()

	if err := st.AddCollection(ctx, "work"); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Adding twice is idempotent.
	if err := st.AddCollection(ctx, "work"); err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	st.AddCollection(ctx, "home")

	names, err := st.ListCollections(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "home" || names[1] != "work" {
		t.Fatalf("want sorted names, got %v", names)
	}

	tagged, _ := st.CreateTask(ctx, "tagged", nil, strp("work"))
	if err := st.DeleteCollection(ctx, "work"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}
	names, _ = st.ListCollections(ctx)
	if len(names) != 1 || names[0] != "home" {
		t.Fatalf("collection not removed: %v", names)
	}
	tasks, _ := st.ListTasks(ctx)
	for _, task := range tasks {
		if task.ID == tagged.ID && task.Collection != nil {
			t.Fatalf("task still references deleted collection: %+v", task)
		}
	}
}

func TestEntryRowsJoin(t *testing.T) {
	st, clk := testStore(t)
	ctx := context.Background()

	task, _ := st.CreateTask(ctx, "joined", nil, strp("work"))
	e, _ := st.StartTimer(ctx, task.ID)
	clk.advance(time.Second)
	st.StopTimer(ctx, e.ID)

	rows, err := st.EntryRows(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.TaskTitle == nil || *r.TaskTitle != "joined" {
		t.Fatalf("title not joined: %+v", r)
	}
	if r.Collection == nil || *r.Collection != "work" {
		t.Fatalf("collection not joined: %+v", r)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	task, err := st.CreateTask(ctx, "survives reopen", nil, strp("work"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	st.Close()

	st2, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer st2.Close()

	tasks, err := st2.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID || tasks[0].Collection == nil {
		t.Fatalf("data lost across reopen: %+v", tasks)
	}
}
