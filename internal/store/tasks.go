package store

import (
	"context"
	"database/sql"

	"tempo-cli/internal/model"
)

const taskCols = `id, title, description, status, created_at, collection`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var t model.Task
	var desc, coll sql.NullString
	var status string
	if err := row.Scan(&t.ID, &t.Title, &desc, &status, &t.CreatedAt, &coll); err != nil {
		return model.Task{}, err
	}
	t.Status = model.Status(status)
	if desc.Valid {
		v := desc.String
		t.Description = &v
	}
	if coll.Valid {
		v := coll.String
		t.Collection = &v
	}
	return t, nil
}

// CreateTask inserts a task with status=active and created_at=now and
// returns the persisted row. Title validation (non-empty after trimming) is
// the caller's responsibility; the store does not reject empty titles.
func (s *Store) CreateTask(ctx context.Context, title string, description, collection *string) (model.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, created_at, collection) VALUES (?, ?, ?, ?, ?)`,
		title, nullStr(description), string(model.StatusActive), s.Now(), nullStr(collection))
	if err != nil {
		return model.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return s.getTask(ctx, id)
}

func (s *Store) getTask(ctx context.Context, id int64) (model.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Task{}, NotFoundError{Kind: "task", ID: id}
	}
	return t, err
}

// ListTasks returns all tasks, newest-created first.
func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskCols+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTaskStatus transitions a task to any status (flat enumeration, no
// transition table) and returns the updated row. Fails with NotFoundError
// if the task does not exist.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status model.Status) (model.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return model.Task{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Task{}, err
	} else if n == 0 {
		return model.Task{}, NotFoundError{Kind: "task", ID: id}
	}
	return s.getTask(ctx, id)
}

// DeleteTask removes a task and, via cascade, its time entries and
// subtasks. Deleting an absent id is a no-op.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
