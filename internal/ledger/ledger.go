// Package ledger keeps a local record of the workouts saved and scheduled
// on the platform.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dayLayout = "2006-01-02"

// Kind of recorded side effect.
type Kind string

const (
	KindSave     Kind = "save"
	KindSchedule Kind = "schedule"
)

// Event is one recorded side effect.
type Event struct {
	RunID    string
	Kind     Kind
	Workout  string
	RemoteID int64
	Day      *time.Time // schedule events only
	At       time.Time
}

// Store records side effects. Each opened store has its own run id.
type Store interface {
	RecordSave(ctx context.Context, name string, id int64) error
	RecordSchedule(ctx context.Context, name string, id int64, day time.Time) error
	IsScheduled(ctx context.Context, name string, day time.Time) (bool, error)
	// History returns the latest events first; limit <= 0 returns everything.
	History(ctx context.Context, limit int) ([]Event, error)
	RunID() string
	Close() error
}

// Open picks the backend from the DSN: postgres URLs use PostgreSQL, anything
// else is a SQLite file path.
func Open(ctx context.Context, dsn string) (Store, error) {
	if isPostgres(dsn) {
		return OpenPostgres(ctx, dsn)
	}
	return OpenSQLite(ctx, dsn)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func newRunID() string { return uuid.NewString() }
