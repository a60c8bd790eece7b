package store

import (
	"context"
	"database/sql"

	"tempo-cli/internal/model"
)

const entryCols = `id, task_id, start_at, end_at, duration_ms`

func scanEntry(row interface{ Scan(...any) error }) (model.TimeEntry, error) {
	var e model.TimeEntry
	var endAt, durMs sql.NullInt64
	if err := row.Scan(&e.ID, &e.TaskID, &e.StartAt, &endAt, &durMs); err != nil {
		return model.TimeEntry{}, err
	}
	if endAt.Valid {
		v := endAt.Int64
		e.EndAt = &v
	}
	if durMs.Valid {
		v := durMs.Int64
		e.DurationMs = &v
	}
	return e, nil
}

// StartTimer inserts a running entry (end_at null) for the task. At most
// one entry per task may be running, and the invariant is enforced here
// rather than left to the caller: any entry still running for the task is
// stopped first, inside the same transaction, with its duration frozen as
// of now.
func (s *Store) StartTimer(ctx context.Context, taskID int64) (model.TimeEntry, error) {
	now := s.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.TimeEntry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE time_entries SET end_at = ?, duration_ms = ? - start_at WHERE task_id = ? AND end_at IS NULL`,
		now, now, taskID); err != nil {
		return model.TimeEntry{}, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO time_entries (task_id, start_at) VALUES (?, ?)`, taskID, now)
	if err != nil {
		return model.TimeEntry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TimeEntry{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.TimeEntry{}, err
	}
	return s.getEntry(ctx, id)
}

// StopTimer sets end_at=now and freezes duration_ms. Fails with
// NotFoundError if the entry does not exist and AlreadyStoppedError if
// end_at is already set; a stopped entry's duration is never mutated. The
// update is guarded on end_at IS NULL so concurrent stops cannot both win
// and re-stamp the duration.
func (s *Store) StopTimer(ctx context.Context, entryID int64) (model.TimeEntry, error) {
	endAt := s.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE time_entries SET end_at = ?, duration_ms = ? - start_at WHERE id = ? AND end_at IS NULL`,
		endAt, endAt, entryID)
	if err != nil {
		return model.TimeEntry{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.TimeEntry{}, err
	}
	if n == 0 {
		// Missing entry or one that was already stopped; getEntry tells
		// them apart.
		if _, err := s.getEntry(ctx, entryID); err != nil {
			return model.TimeEntry{}, err
		}
		return model.TimeEntry{}, AlreadyStoppedError{ID: entryID}
	}
	return s.getEntry(ctx, entryID)
}

func (s *Store) getEntry(ctx context.Context, id int64) (model.TimeEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryCols+` FROM time_entries WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.TimeEntry{}, NotFoundError{Kind: "time entry", ID: id}
	}
	return e, err
}

// ListTimeEntriesByTask returns the task's entries, newest-started first.
func (s *Store) ListTimeEntriesByTask(ctx context.Context, taskID int64) ([]model.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryCols+` FROM time_entries WHERE task_id = ? ORDER BY start_at DESC, id DESC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RunningEntry returns the task's running entry, if any.
func (s *Store) RunningEntry(ctx context.Context, taskID int64) (*model.TimeEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryCols+` FROM time_entries WHERE task_id = ? AND end_at IS NULL ORDER BY start_at DESC LIMIT 1`,
		taskID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// EntryRow is a time entry joined with its owning task's title and
// collection, the shape the report aggregator consumes. TaskTitle is nil
// when the task no longer exists (entries outlive nothing in practice, but
// the join is LEFT to match the aggregation contract).
type EntryRow struct {
	Entry      model.TimeEntry
	TaskTitle  *string
	Collection *string
}

// EntryRows returns every time entry joined with task metadata,
// newest-started first. The report layer filters these in memory; no query
// fragments are assembled from filter input.
func (s *Store) EntryRows(ctx context.Context) ([]EntryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.task_id, e.start_at, e.end_at, e.duration_ms, t.title, t.collection
		FROM time_entries e
		LEFT JOIN tasks t ON t.id = e.task_id
		ORDER BY e.start_at DESC, e.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EntryRow{}
	for rows.Next() {
		var r EntryRow
		var endAt, durMs sql.NullInt64
		var title, coll sql.NullString
		if err := rows.Scan(&r.Entry.ID, &r.Entry.TaskID, &r.Entry.StartAt, &endAt, &durMs, &title, &coll); err != nil {
			return nil, err
		}
		if endAt.Valid {
			v := endAt.Int64
			r.Entry.EndAt = &v
		}
		if durMs.Valid {
			v := durMs.Int64
			r.Entry.DurationMs = &v
		}
		if title.Valid {
			v := title.String
			r.TaskTitle = &v
		}
		if coll.Valid {
			v := coll.String
			r.Collection = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
