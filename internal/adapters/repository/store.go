// Package repository persists decade summaries between runs.
package repository

import (
	"context"
	"time"

	"github.com/okian/decades/internal/domain/decade"
)

// Run is one persisted aggregation: its parameters, filter counts and rows.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Input       string
	MetricField string
	Years       decade.YearRange
	Leagues     []string
	Total       int
	Kept        int
	Rows        []decade.Row
}

// RunInfo is the row-less listing form of a Run.
type RunInfo struct {
	ID          string
	CreatedAt   time.Time
	MetricField string
	Rows        int
}

// Store provides read/write access to persisted summaries.
type Store interface {
	// SaveRun stores run and its rows atomically. An empty ID is replaced
	// by a new UUID, which is returned.
	SaveRun(ctx context.Context, run Run) (string, error)

	// Run returns the run with the given id, rows ordered by decade then
	// by the run's league order. Returns ErrNotFound if id is unknown.
	Run(ctx context.Context, id string) (Run, error)

	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunInfo, error)

	// Close releases the underlying database.
	Close() error
}
