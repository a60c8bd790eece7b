package model

import (
	"fmt"
	"strings"
)

// Status applies to both tasks and subtasks. Any status may transition to
// any other; there is no transition table.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// ParseStatus normalizes user input ("Active", " COMPLETED ") to a
// Status, rejecting anything outside the three known values.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (want active, completed or archived)", s)
	}
	return st, nil
}

// Task is a unit of trackable work. Collection is nil for tasks in the
// implicit "default" bucket; a dangling collection name is tolerated and
// treated as default by clients.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      Status  `json:"status"`
	CreatedAt   int64   `json:"created_at"`
	Collection  *string `json:"collection"`
}

// TimeEntry is one start/stop interval of work on a task. EndAt and
// DurationMs are nil while the entry is running; DurationMs is frozen at
// stop time as end_at - start_at.
type TimeEntry struct {
	ID         int64  `json:"id"`
	TaskID     int64  `json:"task_id"`
	StartAt    int64  `json:"start_at"`
	EndAt      *int64 `json:"end_at"`
	DurationMs *int64 `json:"duration_ms"`
}

// Running reports whether the entry has no recorded end time.
func (e TimeEntry) Running() bool { return e.EndAt == nil }

// Subtask is a checklist item under a task, cascade-deleted with it.
type Subtask struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"task_id"`
	Title     string `json:"title"`
	Status    Status `json:"status"`
	CreatedAt int64  `json:"created_at"`
}
