package store

import "fmt"

// NotFoundError is returned by operations whose caller expects a state
// transition to occur (stop-timer, status updates). Delete-style operations
// are silent no-ops instead; see the individual methods.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

// AlreadyStoppedError reports stopping a time entry whose end_at is already
// set. Never silently ignored: it distinguishes "nothing happened" from
// "your assumption was wrong".
type AlreadyStoppedError struct {
	ID int64
}

func (e AlreadyStoppedError) Error() string {
	return fmt.Sprintf("time entry already stopped: %d", e.ID)
}

// InvalidFormatError reports a backup document missing the expected
// structure. Import aborts before any mutation.
type InvalidFormatError struct {
	Reason string
}

func (e InvalidFormatError) Error() string {
	return "invalid backup format: " + e.Reason
}
