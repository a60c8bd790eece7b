package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const dbFileName = "tracker.sqlite3"

// Store owns the durable schema (tasks, time_entries, subtasks,
// collections) over a single long-lived SQLite connection pool.
// It is constructed once with Open and passed by reference to callers;
// there is no ambient global.
type Store struct {
	db *sql.DB

	// now is the clock used for created_at/start_at/end_at stamps.
	// Wall clock by default; substitutable for tests.
	now func() time.Time
}

// DefaultDir returns the data directory (~/.tempo), honoring TEMPO_DIR.
func DefaultDir() (string, error) {
	if v := os.Getenv("TEMPO_DIR"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tempo"), nil
}

// Open opens (or creates) the tracker database under dir and runs
// migrations. Failure here is a startup error: the application cannot run
// without its store.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return OpenPath(ctx, filepath.Join(dir, dbFileName))
}

// dsnPragmas rides on the connection string so every connection the pool
// opens gets the same settings. foreign_keys in particular is
// per-connection state; applying it with Exec would only cover whichever
// connection happened to run the statement. WAL enables one writer + many
// readers; busy_timeout avoids "database is locked" flakiness when a
// second process peeks at the file.
const dsnPragmas = "?_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)"

// OpenPath opens the database at an explicit file path.
func OpenPath(ctx context.Context, path string) (*Store, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SetNow substitutes the clock source. Intended for tests.
func (s *Store) SetNow(now func() time.Time) {
	s.now = now
}

// Now returns the store's current wall-clock time in ms since epoch.
func (s *Store) Now() int64 {
	return s.now().UnixMilli()
}
