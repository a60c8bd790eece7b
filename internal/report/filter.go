package report

import "tempo-cli/internal/store"

// Collection filter sentinels. Any other value selects that collection by
// name.
const (
	CollectionAll     = "all"
	CollectionDefault = "default"
)

// Filter selects time entries for aggregation. All fields are optional and
// combine with AND. It is an explicit predicate evaluated against joined
// entry rows; no SQL is assembled from it.
type Filter struct {
	// TaskID restricts to one task; zero means no task filter.
	TaskID int64 `json:"taskId,omitempty"`

	// Collection is "all" (or empty) for no filter, "default" for tasks
	// with no collection, or a specific collection name.
	Collection string `json:"collection,omitempty"`

	// From and To are inclusive bounds on start_at, in ms since epoch.
	// Zero means unbounded.
	From int64 `json:"from,omitempty"`
	To   int64 `json:"to,omitempty"`
}

// Matches reports whether the row passes every set clause.
func (f Filter) Matches(r store.EntryRow) bool {
	if f.TaskID != 0 && r.Entry.TaskID != f.TaskID {
		return false
	}
	switch f.Collection {
	case "", CollectionAll:
	case CollectionDefault:
		if r.Collection != nil {
			return false
		}
	default:
		if r.Collection == nil || *r.Collection != f.Collection {
			return false
		}
	}
	if f.From != 0 && r.Entry.StartAt < f.From {
		return false
	}
	if f.To != 0 && r.Entry.StartAt > f.To {
		return false
	}
	return true
}

func filterRows(rows []store.EntryRow, f Filter) []store.EntryRow {
	out := make([]store.EntryRow, 0, len(rows))
	for _, r := range rows {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
