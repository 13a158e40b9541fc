package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver
	"github.com/google/uuid"

	"github.com/okian/decades/internal/domain/decade"
)

const defaultBusyTimeout = 5 * time.Second

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    created_at    TEXT NOT NULL,
    input         TEXT NOT NULL,
    metric_field  TEXT NOT NULL,
    year_min      INTEGER NOT NULL,
    year_max      INTEGER NOT NULL,
    leagues       TEXT NOT NULL,
    records_total INTEGER NOT NULL,
    records_kept  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS decade_summaries (
    run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position  INTEGER NOT NULL,
    decade    INTEGER NOT NULL,
    league_id TEXT NOT NULL,
    mean      REAL NOT NULL,
    count     INTEGER NOT NULL,
    PRIMARY KEY (run_id, decade, league_id)
);
`

// SQLiteStore implements Store on a SQLite file.
type SQLiteStore struct {
	mu          sync.RWMutex
	db          *sql.DB
	closed      bool
	busyTimeout time.Duration
	now         func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// Open opens or creates the database at path and ensures the schema.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	s.db = db
	return s, nil
}

// SaveRun implements Store.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrStoreClosed
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, input, metric_field, year_min, year_max, leagues, records_total, records_kept)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Input, run.MetricField,
		run.Years.Min, run.Years.Max, strings.Join(run.Leagues, ","), run.Total, run.Kept)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO decade_summaries (run_id, position, decade, league_id, mean, count) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare rows: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range run.Rows {
		if _, err := stmt.ExecContext(ctx, run.ID, i, row.Decade, row.LeagueID, row.Mean, row.Count); err != nil {
			return "", fmt.Errorf("insert row %d/%s: %w", row.Decade, row.LeagueID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// Run implements Store.
func (s *SQLiteStore) Run(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Run{}, ErrStoreClosed
	}

	var (
		run       Run
		createdAt string
		leagues   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, input, metric_field, year_min, year_max, leagues, records_total, records_kept
         FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &createdAt, &run.Input, &run.MetricField, &run.Years.Min, &run.Years.Max, &leagues, &run.Total, &run.Kept)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run %s: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Run{}, fmt.Errorf("run %s created_at: %w", id, err)
	}
	if leagues != "" {
		run.Leagues = strings.Split(leagues, ",")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT decade, league_id, mean, count FROM decade_summaries WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return Run{}, fmt.Errorf("query rows %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r decade.Row
		if err := rows.Scan(&r.Decade, &r.LeagueID, &r.Mean, &r.Count); err != nil {
			return Run{}, fmt.Errorf("scan row: %w", err)
		}
		run.Rows = append(run.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate rows %s: %w", id, err)
	}
	return run, nil
}

// ListRuns implements Store.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.metric_field, COUNT(d.run_id)
         FROM runs r LEFT JOIN decade_summaries d ON d.run_id = r.id
         GROUP BY r.id ORDER BY r.created_at DESC, r.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunInfo
	for rows.Next() {
		var (
			info      RunInfo
			createdAt string
		)
		if err := rows.Scan(&info.ID, &createdAt, &info.MetricField, &info.Rows); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if info.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("run %s created_at: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Close implements Store. Closing twice is a no-op.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
