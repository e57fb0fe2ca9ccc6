package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	workout    TEXT NOT NULL,
	remote_id  INTEGER NOT NULL,
	day        TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_schedule ON events (workout, day) WHERE kind = 'schedule';`

// SQLite is the file-backed store used by default.
type SQLite struct {
	db    *sql.DB
	runID string
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("ledger path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	// single writer; keeps ":memory:" on one connection too
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger tables: %w", err)
	}
	return &SQLite{db: db, runID: newRunID()}, nil
}

func (s *SQLite) RunID() string { return s.runID }

func (s *SQLite) RecordSave(ctx context.Context, name string, id int64) error {
	return s.insert(ctx, KindSave, name, id, nil)
}

func (s *SQLite) RecordSchedule(ctx context.Context, name string, id int64, day time.Time) error {
	d := day.Format(dayLayout)
	return s.insert(ctx, KindSchedule, name, id, &d)
}

func (s *SQLite) insert(ctx context.Context, kind Kind, name string, id int64, day *string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (run_id, kind, workout, remote_id, day, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.runID, string(kind), name, id, day, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s of %q: %w", kind, name, err)
	}
	return nil
}

// IsScheduled reports whether name was ever scheduled on day.
func (s *SQLite) IsScheduled(ctx context.Context, name string, day time.Time) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE kind = 'schedule' AND workout = ? AND day = ?`,
		name, day.Format(dayLayout),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLite) History(ctx context.Context, limit int) ([]Event, error) {
	q := `SELECT run_id, kind, workout, remote_id, day, created_at FROM events ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e        Event
			kind, at string
			day      sql.NullString
		)
		if err := rows.Scan(&e.RunID, &kind, &e.Workout, &e.RemoteID, &day, &at); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("event time %q: %w", at, err)
		}
		if day.Valid {
			d, err := time.Parse(dayLayout, day.String)
			if err != nil {
				return nil, fmt.Errorf("event day %q: %w", day.String, err)
			}
			e.Day = &d
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
