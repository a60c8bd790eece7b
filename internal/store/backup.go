package store

import (
	"context"
	"encoding/json"
	"fmt"

	"tempo-cli/internal/model"
)

// snapshotVersion is the backup document format version.
const snapshotVersion = 1

// Snapshot is the self-describing backup document: every row of every
// table plus a format version and export timestamp. It round-trips through
// ImportData losslessly, original ids included.
type Snapshot struct {
	Version    int          `json:"version"`
	ExportedAt int64        `json:"exported_at"`
	Data       SnapshotData `json:"data"`
}

type SnapshotData struct {
	Tasks       []model.Task         `json:"tasks"`
	TimeEntries []model.TimeEntry    `json:"timeEntries"`
	Subtasks    []model.Subtask      `json:"subtasks"`
	Collections []SnapshotCollection `json:"collections"`
}

type SnapshotCollection struct {
	Name string `json:"name"`
}

// ImportResult is the outcome surface of ImportData: import never panics
// or leaks errors past its own boundary.
type ImportResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ExportData serializes the entire store into one indented JSON document.
func (s *Store) ExportData(ctx context.Context) (string, error) {
	snap, err := s.exportSnapshot(ctx)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) exportSnapshot(ctx context.Context) (*Snapshot, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	entries := []model.TimeEntry{}
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryCols+` FROM time_entries ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subtasks := []model.Subtask{}
	srows, err := s.db.QueryContext(ctx, `SELECT `+subtaskCols+` FROM subtasks ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		st, err := scanSubtask(srows)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	names, err := s.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	cols := make([]SnapshotCollection, 0, len(names))
	for _, n := range names {
		cols = append(cols, SnapshotCollection{Name: n})
	}

	return &Snapshot{
		Version:    snapshotVersion,
		ExportedAt: s.Now(),
		Data: SnapshotData{
			Tasks:       tasks,
			TimeEntries: entries,
			Subtasks:    subtasks,
			Collections: cols,
		},
	}, nil
}

// ImportData destructively replaces all current data with the snapshot in
// jsonText. The whole replacement happens in one transaction; any failure
// rolls back completely, and the result carries the error message instead
// of propagating it.
func (s *Store) ImportData(ctx context.Context, jsonText string) ImportResult {
	if err := s.importSnapshot(ctx, jsonText); err != nil {
		return ImportResult{Success: false, Error: err.Error()}
	}
	return ImportResult{Success: true}
}

func (s *Store) importSnapshot(ctx context.Context, jsonText string) error {
	var raw struct {
		Version    int           `json:"version"`
		ExportedAt int64         `json:"exported_at"`
		Data       *SnapshotData `json:"data"`
	}
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return InvalidFormatError{Reason: "not a JSON document"}
	}
	if raw.Data == nil {
		return InvalidFormatError{Reason: "missing data section"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Delete in dependency order, then re-insert preserving original ids.
	for _, t := range []string{"subtasks", "time_entries", "tasks", "collections"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}

	for _, c := range raw.Data.Collections {
		if _, err := tx.ExecContext(ctx, `INSERT INTO collections (name) VALUES (?)`, c.Name); err != nil {
			return fmt.Errorf("restore collection %q: %w", c.Name, err)
		}
	}
	for _, t := range raw.Data.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, title, description, status, created_at, collection) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, nullStr(t.Description), string(t.Status), t.CreatedAt, nullStr(t.Collection)); err != nil {
			return fmt.Errorf("restore task %d: %w", t.ID, err)
		}
	}
	for _, st := range raw.Data.Subtasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subtasks (id, task_id, title, status, created_at) VALUES (?, ?, ?, ?, ?)`,
			st.ID, st.TaskID, st.Title, string(st.Status), st.CreatedAt); err != nil {
			return fmt.Errorf("restore subtask %d: %w", st.ID, err)
		}
	}
	for _, e := range raw.Data.TimeEntries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO time_entries (id, task_id, start_at, end_at, duration_ms) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.TaskID, e.StartAt, nullInt(e.EndAt), nullInt(e.DurationMs)); err != nil {
			return fmt.Errorf("restore time entry %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
