package store

import (
	"context"
	"database/sql"

	"tempo-cli/internal/model"
)

const subtaskCols = `id, task_id, title, status, created_at`

func scanSubtask(row interface{ Scan(...any) error }) (model.Subtask, error) {
	var st model.Subtask
	var status string
	if err := row.Scan(&st.ID, &st.TaskID, &st.Title, &status, &st.CreatedAt); err != nil {
		return model.Subtask{}, err
	}
	st.Status = model.Status(status)
	return st, nil
}

// CreateSubtask inserts a checklist item under a task with status=active.
func (s *Store) CreateSubtask(ctx context.Context, taskID int64, title string) (model.Subtask, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO subtasks (task_id, title, status, created_at) VALUES (?, ?, ?, ?)`,
		taskID, title, string(model.StatusActive), s.Now())
	if err != nil {
		return model.Subtask{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Subtask{}, err
	}
	return s.getSubtask(ctx, id)
}

func (s *Store) getSubtask(ctx context.Context, id int64) (model.Subtask, error) {
	st, err := scanSubtask(s.db.QueryRowContext(ctx,
		`SELECT `+subtaskCols+` FROM subtasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Subtask{}, NotFoundError{Kind: "subtask", ID: id}
	}
	return st, err
}

// ListSubtasksByTask returns the task's subtasks, oldest-created first.
func (s *Store) ListSubtasksByTask(ctx context.Context, taskID int64) ([]model.Subtask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subtaskCols+` FROM subtasks WHERE task_id = ? ORDER BY created_at ASC, id ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Subtask{}
	for rows.Next() {
		st, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// UpdateSubtaskStatus transitions a subtask to any status and returns the
// updated row. Fails with NotFoundError if the subtask does not exist.
func (s *Store) UpdateSubtaskStatus(ctx context.Context, id int64, status model.Status) (model.Subtask, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE subtasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return model.Subtask{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Subtask{}, err
	} else if n == 0 {
		return model.Subtask{}, NotFoundError{Kind: "subtask", ID: id}
	}
	return s.getSubtask(ctx, id)
}

// DeleteSubtask removes a subtask. Deleting an absent id is a no-op.
func (s *Store) DeleteSubtask(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	return err
}
