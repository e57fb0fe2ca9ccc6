package ledger

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres stores events in a shared database.
type Postgres struct {
	pool  *pgxpool.Pool
	runID string
}

// OpenPostgres migrates the database then connects a pool to it.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{pool: pool, runID: newRunID()}, nil
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// migrateURL switches the scheme to the one the pgx migrate driver registers.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

func (p *Postgres) RunID() string { return p.runID }

func (p *Postgres) RecordSave(ctx context.Context, name string, id int64) error {
	return p.insert(ctx, KindSave, name, id, nil)
}

func (p *Postgres) RecordSchedule(ctx context.Context, name string, id int64, day time.Time) error {
	d := day.Format(dayLayout)
	return p.insert(ctx, KindSchedule, name, id, &d)
}

func (p *Postgres) insert(ctx context.Context, kind Kind, name string, id int64, day *string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO events (run_id, kind, workout, remote_id, day) VALUES ($1, $2, $3, $4, $5::date)`,
		uuid.MustParse(p.runID), string(kind), name, id, day,
	)
	if err != nil {
		return fmt.Errorf("recording %s of %q: %w", kind, name, err)
	}
	return nil
}

func (p *Postgres) IsScheduled(ctx context.Context, name string, day time.Time) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE kind = 'schedule' AND workout = $1 AND day = $2::date)`,
		name, day.Format(dayLayout),
	).Scan(&exists)
	return exists, err
}

func (p *Postgres) History(ctx context.Context, limit int) ([]Event, error) {
	q := `SELECT run_id::text, kind, workout, remote_id, day, created_at FROM events ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e    Event
			kind string
		)
		if err := rows.Scan(&e.RunID, &kind, &e.Workout, &e.RemoteID, &e.Day, &e.At); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
